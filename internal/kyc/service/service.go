// Package service is the KYC workflow orchestrator. It sequences store
// writes, state-machine evaluation and collaborator calls for every company,
// person and beneficiary operation.
//
// Status-mutating operations run inside TxRunner.RunInTx for the affected
// company and follow one order: lock the company, write, re-read the live
// persons and beneficiaries, evaluate models.Next. Collaborator calls happen
// outside the transaction; emails and registry auto-population are submitted
// to the background dispatcher after commit.
package service

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"kyc/internal/audit"
	"kyc/internal/kyc/metrics"
	"kyc/internal/kyc/models"
	"kyc/internal/kyc/ports"
	"kyc/internal/platform/workers"
	id "kyc/pkg/domain"
	dErrors "kyc/pkg/domain-errors"
)

type CompanyStore interface {
	Create(ctx context.Context, c *models.Company) error
	FindByID(ctx context.Context, companyID id.CompanyID) (*models.Company, error)
	FindForUpdate(ctx context.Context, companyID id.CompanyID) (*models.Company, error)
	FindByIDNumber(ctx context.Context, idNumber string) (*models.Company, error)
	FindByIDs(ctx context.Context, ids []id.CompanyID) ([]*models.Company, error)
	List(ctx context.Context, page models.Page) ([]*models.Company, error)
	Update(ctx context.Context, c *models.Company) error
	Search(ctx context.Context, q string) ([]*models.Company, error)
}

type PersonStore interface {
	Create(ctx context.Context, p *models.Person) error
	FindByID(ctx context.Context, personID id.PersonID) (*models.Person, error)
	List(ctx context.Context, page models.Page) ([]*models.Person, error)
	ListByCompany(ctx context.Context, companyID id.CompanyID) ([]*models.Person, error)
	Update(ctx context.Context, p *models.Person) error
	SearchCompanyIDs(ctx context.Context, q string) ([]id.CompanyID, error)
}

type BeneficiaryStore interface {
	Create(ctx context.Context, b *models.Beneficiary) error
	FindByID(ctx context.Context, beneficiaryID id.BeneficiaryID) (*models.Beneficiary, error)
	ListByCompany(ctx context.Context, companyID id.CompanyID) ([]*models.Beneficiary, error)
	Update(ctx context.Context, b *models.Beneficiary) error
	SearchCompanyIDs(ctx context.Context, q string) ([]id.CompanyID, error)
}

type AddressStore interface {
	Create(ctx context.Context, a *models.Address) error
	FindByID(ctx context.Context, addressID id.AddressID) (*models.Address, error)
	ListByCompany(ctx context.Context, companyID id.CompanyID) ([]*models.Address, error)
	ListByPerson(ctx context.Context, personID id.PersonID) ([]*models.Address, error)
	DeleteByCompany(ctx context.Context, companyID id.CompanyID) error
	DeleteByPerson(ctx context.Context, personID id.PersonID) error
}

// Stores groups the entity stores the service writes through.
type Stores struct {
	Companies     CompanyStore
	Persons       PersonStore
	Beneficiaries BeneficiaryStore
	Addresses     AddressStore
}

var tracer = otel.Tracer("kyc/internal/kyc/service")

// Service orchestrates the KYC workflow.
type Service struct {
	companies     CompanyStore
	persons       PersonStore
	beneficiaries BeneficiaryStore
	addresses     AddressStore
	tx            TxRunner

	faceMatcher ports.FaceMatcher
	registry    ports.RegistryLookup
	enricher    ports.Enricher
	notifier    ports.Notifier
	dispatcher  workers.Dispatcher

	logger         *slog.Logger
	metrics        *metrics.Metrics
	auditPublisher audit.Publisher
}

type Option func(*Service)

func WithTx(tx TxRunner) Option {
	return func(s *Service) {
		s.tx = tx
	}
}

func WithFaceMatcher(m ports.FaceMatcher) Option {
	return func(s *Service) {
		s.faceMatcher = m
	}
}

func WithRegistryLookup(r ports.RegistryLookup) Option {
	return func(s *Service) {
		s.registry = r
	}
}

func WithEnricher(e ports.Enricher) Option {
	return func(s *Service) {
		s.enricher = e
	}
}

func WithNotifier(n ports.Notifier) Option {
	return func(s *Service) {
		s.notifier = n
	}
}

// WithDispatcher sets where best-effort background work runs. The default
// runs it inline after the operation commits.
func WithDispatcher(d workers.Dispatcher) Option {
	return func(s *Service) {
		s.dispatcher = d
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithAuditPublisher(p audit.Publisher) Option {
	return func(s *Service) {
		s.auditPublisher = p
	}
}

// New constructs a Service over the given stores. Without WithTx it uses an
// in-memory ShardedTx, which is only correct for the in-memory stores.
func New(stores Stores, opts ...Option) *Service {
	s := &Service{
		companies:     stores.Companies,
		persons:       stores.Persons,
		beneficiaries: stores.Beneficiaries,
		addresses:     stores.Addresses,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.tx == nil {
		s.tx = NewShardedTx(0)
	}
	if s.dispatcher == nil {
		s.dispatcher = workers.Inline{Logger: s.logger}
	}
	return s
}

// observe opens a span for op and returns a func that ends it and records
// the operation duration.
func (s *Service) observe(ctx context.Context, op string, attrs ...trace.SpanStartOption) (context.Context, func(err error)) {
	start := time.Now()
	ctx, span := tracer.Start(ctx, "kyc."+op, attrs...)
	return ctx, func(err error) {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, string(dErrors.CodeOf(err)))
		}
		span.End()
		s.metrics.ObserveOperation(op, time.Since(start))
	}
}

// callExternal times a collaborator call and records its outcome.
func (s *Service) callExternal(ctx context.Context, collaborator string, fn func(ctx context.Context) error) error {
	ctx, span := tracer.Start(ctx, "kyc.external."+collaborator)
	defer span.End()
	start := time.Now()
	err := fn(ctx)
	s.metrics.ObserveExternalCall(collaborator, time.Since(start), err)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "collaborator call failed")
	}
	return err
}
