package infrastructure

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"lottoledger/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ledgerJSON(rows ...string) string {
	list := ""
	for i, row := range rows {
		if i > 0 {
			list += ","
		}
		list += row
	}
	return fmt.Sprintf(`{"data":{"list":[%s]}}`, list)
}

func ledgerRow(product, round, result string, amount any) string {
	return fmt.Sprintf(`{"ltGdsNm":%q,"ltEpsdView":%q,"ltWnResult":%q,"ltWnAmt":%#v}`, product, round, result, amount)
}

func TestParseLedgerOutcome(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		product string
		body    string
		want    *models.CoarseOutcome
	}{
		{
			name: "all rows lost",
			body: ledgerJSON(
				ledgerRow("로또6/45", "1100", "낙첨", 0),
				ledgerRow("로또6/45", "1100", "낙첨", 0),
			),
			want: &models.CoarseOutcome{Won: false},
		},
		{
			name: "one win sums amounts",
			body: ledgerJSON(
				ledgerRow("로또6/45", "1100", "낙첨", 0),
				ledgerRow("로또6/45", "1100", "당첨", 5000),
				ledgerRow("로또6/45", "1100회", "당첨", "50,000"),
			),
			want: &models.CoarseOutcome{Won: true, Amount: 55000},
		},
		{
			name: "not drawn yet",
			body: ledgerJSON(ledgerRow("로또6/45", "1100", "미추첨", 0)),
			want: nil,
		},
		{
			name: "other rounds and products ignored",
			body: ledgerJSON(
				ledgerRow("로또6/45", "1099", "당첨", 5000),
				ledgerRow("연금복권720+", "1100", "당첨", 5000),
			),
			want: nil,
		},
		{
			name:    "pension rows for pension tickets",
			product: ledgerProductPension,
			body: ledgerJSON(
				ledgerRow("로또6/45", "1100", "당첨", 5000),
				ledgerRow("연금복권720+", "1100", "낙첨", 0),
				ledgerRow("연금복권720+", "1100회", "낙첨", 0),
			),
			want: &models.CoarseOutcome{Won: false},
		},
		{
			name:    "pension win",
			product: ledgerProductPension,
			body: ledgerJSON(
				ledgerRow("연금복권720+", "1100", "당첨", "5,000"),
				ledgerRow("로또6/45", "1100", "낙첨", 0),
			),
			want: &models.CoarseOutcome{Won: true, Amount: 5000},
		},
		{
			name: "empty ledger",
			body: `{"data":{"list":[]}}`,
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			product := tt.product
			if product == "" {
				product = ledgerProductLotto
			}

			got, err := parseLedgerOutcome([]byte(tt.body), product, 1100)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLedgerOutcomeProvider_FetchCoarseOutcome(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "JSESSIONID=abc", r.Header.Get("Cookie"))
		assert.Equal(t, "XMLHttpRequest", r.Header.Get("X-Requested-With"))
		assert.Equal(t, "20231207", r.URL.Query().Get("srchStrDt"))
		assert.Equal(t, "20240106", r.URL.Query().Get("srchEndDt"))
		fmt.Fprint(w, ledgerJSON(ledgerRow("로또6/45", "1100", "낙첨", 0)))
	}))
	defer server.Close()

	provider := NewLedgerOutcomeProvider(server.URL, "JSESSIONID=abc", time.Second)
	provider.now = func() time.Time { return time.Date(2024, 1, 6, 21, 0, 0, 0, time.UTC) }

	got, err := provider.FetchCoarseOutcome(context.Background(), 1100, models.TicketModeAutomatic)
	require.NoError(t, err)
	assert.Equal(t, &models.CoarseOutcome{Won: false}, got)

	got, err = provider.FetchCoarseOutcome(context.Background(), 1100, models.TicketModePensionAutomatic)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestLedgerProduct(t *testing.T) {
	t.Parallel()

	assert.Equal(t, ledgerProductLotto, ledgerProduct(models.TicketModeAutomatic))
	assert.Equal(t, ledgerProductLotto, ledgerProduct(models.TicketModeManual))
	assert.Equal(t, ledgerProductPension, ledgerProduct(models.TicketModePensionAutomatic))
}

func TestLedgerOutcomeProvider_ExpiredSession(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html>login</html>`)
	}))
	defer server.Close()

	provider := NewLedgerOutcomeProvider(server.URL, "JSESSIONID=stale", time.Second)
	_, err := provider.FetchCoarseOutcome(context.Background(), 1100, models.TicketModeAutomatic)
	assert.ErrorIs(t, err, models.ErrProviderError)
}
