package brvmweb

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kyac99/brvm-market-analysis/internal/httpclient"
)

const historyPage = `<html><body>
<table class="table">
	<thead><tr><th>Date</th><th>Ouverture</th><th>Plus haut</th><th>Plus bas</th><th>Clôture</th><th>Volume</th></tr></thead>
	<tbody>
		<tr><td>16/01/2024</td><td>5 100,00</td><td>5 200,00</td><td>5 050,00</td><td>5 150,00</td><td>1 200</td></tr>
		<tr><td>15/01/2024</td><td></td><td>5 100,50</td><td>4 990,00</td><td>5 000,25</td><td>800</td></tr>
		<tr><td>garbage</td><td>1</td><td>1</td><td>1</td><td>1</td><td>1</td></tr>
		<tr><td>17/01/2024</td><td>5 150,00</td><td>5 160,00</td><td>5 100,00</td><td></td><td>500</td></tr>
		<tr><td>18/01/2024</td><td colspan="5">Séance annulée</td></tr>
	</tbody>
</table>
</body></html>`

func newTestTransport() *httpclient.Client {
	return httpclient.New(httpclient.Options{
		UserAgent:      "test-agent",
		AcceptLanguage: "fr-FR",
		Accept:         "*/*",
	}, nil)
}

func TestGetHistoryParsesTable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/fr/historique/SNTS", r.URL.Path)
		require.Equal(t, "2024-01-01", r.URL.Query().Get("start"))
		require.Equal(t, "2024-01-31", r.URL.Query().Get("end"))
		w.Write([]byte(historyPage))
	}))
	defer server.Close()

	scraper := New(newTestTransport(), WithBaseURL(server.URL))

	quotes, err := scraper.GetHistory(context.Background(), "SNTS",
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, quotes, 2, "rows with a bad date, missing close, or too few cells are dropped")

	assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), quotes[0].Date, "sorted ascending")
	assert.Nil(t, quotes[0].Open, "blank open cell")
	require.NotNil(t, quotes[0].High)
	assert.InDelta(t, 5100.50, *quotes[0].High, 1e-9)
	assert.InDelta(t, 5000.25, quotes[0].Close, 1e-9)
	assert.Equal(t, int64(800), quotes[0].Volume)

	assert.Equal(t, time.Date(2024, 1, 16, 0, 0, 0, 0, time.UTC), quotes[1].Date)
	assert.Equal(t, int64(1200), quotes[1].Volume)
}

func TestGetHistoryNoTable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body><p>Aucun historique disponible.</p></body></html>`))
	}))
	defer server.Close()

	scraper := New(newTestTransport(), WithBaseURL(server.URL))

	quotes, err := scraper.GetHistory(context.Background(), "SNTS",
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Empty(t, quotes)
}

func TestGetHistoryTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	scraper := New(newTestTransport(), WithBaseURL(server.URL))

	_, err := scraper.GetHistory(context.Background(), "SNTS",
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC))
	require.Error(t, err)

	var statusErr *httpclient.StatusError
	assert.ErrorAs(t, err, &statusErr)
}

func TestListSecurities(t *testing.T) {
	page := `<html><body>
	<table class="table">
		<tbody>
			<tr><td>SNTS</td><td>SONATEL SENEGAL</td></tr>
			<tr><td>BOAB</td><td>BANK OF AFRICA BENIN</td></tr>
			<tr><td></td><td>ligne vide</td></tr>
			<tr><td>ORPHAN</td></tr>
		</tbody>
	</table>
	</body></html>`
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/fr/cours-actions/0", r.URL.Path)
		w.Write([]byte(page))
	}))
	defer server.Close()

	scraper := New(newTestTransport(), WithBaseURL(server.URL))

	securities, err := scraper.ListSecurities(context.Background())
	require.NoError(t, err)
	require.Len(t, securities, 2)
	assert.Equal(t, Security{Symbol: "SNTS", Name: "SONATEL SENEGAL"}, securities[0])
	assert.Equal(t, Security{Symbol: "BOAB", Name: "BANK OF AFRICA BENIN"}, securities[1])
}

func TestListSecuritiesNoTable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body></body></html>`))
	}))
	defer server.Close()

	scraper := New(newTestTransport(), WithBaseURL(server.URL))

	securities, err := scraper.ListSecurities(context.Background())
	require.NoError(t, err)
	assert.Empty(t, securities)
}
