package main

import (
	"context"

	"kyc/internal/platform/postgres"
	id "kyc/pkg/domain"
)

// kycPostgresTx adapts the database transaction runner to the per-company
// TxRunner the KYC service expects. The company row lock is taken by the
// service itself through CompanyStore.FindForUpdate as the first statement.
type kycPostgresTx struct {
	runner *postgres.TxRunner
}

func newKYCPostgresTx(runner *postgres.TxRunner) *kycPostgresTx {
	return &kycPostgresTx{runner: runner}
}

func (t *kycPostgresTx) RunInTx(ctx context.Context, _ id.CompanyID, fn func(ctx context.Context) error) error {
	return t.runner.RunInTx(ctx, fn)
}
