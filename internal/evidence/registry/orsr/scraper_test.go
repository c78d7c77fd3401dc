package orsr

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"kyc/internal/evidence/providers"
	"kyc/internal/kyc/ports"
)

const searchPage = `<html><body>
<div class="bmk"><a href="vypis.asp?ID=1234&SID=2&P=0">Acme s. r. o.</a></div>
</body></html>`

const extractPage = `<html><body>
<table><tr>
  <td><span class="tl">Obchodné meno:&nbsp;</span></td>
  <td><table><tr><td><span class="ra">Acme s. r. o.</span></td></tr></table></td>
</tr></table>
<table><tr>
  <td><span class="tl">Štatutárny orgán:&nbsp;</span></td>
  <td>
    <table><tr><td><span class="ra">konatelia</span></td><td>&nbsp;</td></tr></table>
    <table><tr><td><a class="lnm" href="#"><span class="ra">Ján</span> <span class="ra">Novák</span></a><br><span class="ra">Hlavná</span> <span class="ra">1</span></td><td><span class="ra">(od: 01.01.2020)</span></td></tr></table>
    <table><tr><td><span class="ra">Mária</span> <span class="ra">Nová</span><br><span class="ra">Dlhá 2</span></td></tr></table>
    <table><tr><td><span class="ra">Holding a. s.</span><br><span class="ra">Bratislava</span></td></tr></table>
    <table><tr><td><span class="ra">Ján</span> <span class="ra">Novák</span><br><span class="ra">Hlavná 1</span></td></tr></table>
  </td>
</tr></table>
</body></html>`

func TestStatutoryNames(t *testing.T) {
	doc, err := html.Parse(strings.NewReader(extractPage))
	require.NoError(t, err)

	assert.Equal(t, []string{"Ján Novák", "Mária Nová", "Ján Novák"}, StatutoryNames(doc))
}

func TestStatutoryNamesMissingSection(t *testing.T) {
	doc, err := html.Parse(strings.NewReader(searchPage))
	require.NoError(t, err)

	assert.Empty(t, StatutoryNames(doc))
}

func TestLookupPersons(t *testing.T) {
	var searched string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		switch r.URL.Path {
		case "/hladaj_ico.asp":
			searched = r.URL.Query().Get("ICO")
			_, _ = w.Write([]byte(searchPage))
		case "/vypis.asp":
			_, _ = w.Write([]byte(extractPage))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	client, err := New(srv.URL, time.Second)
	require.NoError(t, err)

	persons, err := client.LookupPersons(t.Context(), "12345678")
	require.NoError(t, err)
	assert.Equal(t, "12345678", searched)
	assert.Equal(t, []ports.RegistryPerson{
		{Name: "Ján", Surname: "Novák"},
		{Name: "Mária", Surname: "Nová"},
	}, persons)
}

func TestLookupPersonsUnknownCompany(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html><body><p>Nenašli sa žiadne záznamy</p></body></html>`))
	}))
	defer srv.Close()

	client, err := New(srv.URL, time.Second)
	require.NoError(t, err)

	_, err = client.LookupPersons(t.Context(), "12345678")
	require.Error(t, err)
	assert.Equal(t, providers.ErrorNotFound, providers.GetCategory(err))
}

func TestLookupPersonsUpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client, err := New(srv.URL, time.Second)
	require.NoError(t, err)

	_, err = client.LookupPersons(t.Context(), "12345678")
	require.Error(t, err)
	assert.True(t, providers.IsRetryable(err))
}
