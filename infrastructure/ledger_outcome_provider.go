package infrastructure

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"lottoledger/models"

	log "github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
)

const (
	ledgerProductLotto   = "로또6/45"
	ledgerProductPension = "연금복권720+"

	ledgerResultWon      = "당첨"
	ledgerResultLost     = "낙첨"
	ledgerResultNotDrawn = "미추첨"

	// ledgerLookback bounds the purchase ledger query window
	ledgerLookback = 30 * 24 * time.Hour
)

// LedgerOutcomeProvider reads per-round win/no-win verdicts from the
// account's purchase ledger. It needs an authenticated session cookie.
type LedgerOutcomeProvider struct {
	baseURL string
	cookie  string
	client  *http.Client
	now     func() time.Time
}

// NewLedgerOutcomeProvider creates a coarse outcome provider
func NewLedgerOutcomeProvider(baseURL, sessionCookie string, timeout time.Duration) *LedgerOutcomeProvider {
	return &LedgerOutcomeProvider{
		baseURL: baseURL,
		cookie:  sessionCookie,
		client:  newHTTPClient(timeout),
		now:     time.Now,
	}
}

// FetchCoarseOutcome implements service.CoarseOutcomeProvider. Only rows
// of the product the mode belongs to count. A round is won if any of its
// rows reports a win; it is lost only when every row reports a loss.
// Anything else yields no verdict.
func (p *LedgerOutcomeProvider) FetchCoarseOutcome(ctx context.Context, roundNumber int64, mode models.TicketMode) (*models.CoarseOutcome, error) {
	body, err := p.fetchLedger(ctx)
	if err != nil {
		return nil, err
	}
	return parseLedgerOutcome(body, ledgerProduct(mode), roundNumber)
}

// ledgerProduct maps a ticket mode to the product name the ledger lists it under
func ledgerProduct(mode models.TicketMode) string {
	if mode == models.TicketModePensionAutomatic {
		return ledgerProductPension
	}
	return ledgerProductLotto
}

func (p *LedgerOutcomeProvider) fetchLedger(ctx context.Context) ([]byte, error) {
	endpoint, err := url.Parse(p.baseURL)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid ledger url %q: %v", models.ErrProviderError, p.baseURL, err)
	}

	end := p.now()
	start := end.Add(-ledgerLookback)
	query := endpoint.Query()
	query.Set("srchStrDt", start.Format("20060102"))
	query.Set("srchEndDt", end.Format("20060102"))
	query.Set("pageNum", "1")
	query.Set("recordCountPerPage", "100")
	endpoint.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to build request: %v", models.ErrProviderError, err)
	}
	req.Header.Set("Accept", "application/json, text/javascript, */*; q=0.01")
	req.Header.Set("X-Requested-With", "XMLHttpRequest")
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Cookie", p.cookie)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: ledger request: %v", models.ErrProviderError, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: ledger returned status %d", models.ErrProviderError, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read ledger: %v", models.ErrProviderError, err)
	}
	if !gjson.ValidBytes(body) {
		// An expired session is answered with the login page
		return nil, fmt.Errorf("%w: ledger response is not JSON", models.ErrProviderError)
	}
	return body, nil
}

func parseLedgerOutcome(body []byte, product string, roundNumber int64) (*models.CoarseOutcome, error) {
	var (
		rows    int
		won     bool
		lost    int
		amount  int64
		undrawn bool
	)

	gjson.GetBytes(body, "data.list").ForEach(func(_, item gjson.Result) bool {
		if strings.TrimSpace(item.Get("ltGdsNm").String()) != product {
			return true
		}
		if parseLedgerRound(item.Get("ltEpsdView").String()) != roundNumber {
			return true
		}

		rows++
		switch strings.TrimSpace(item.Get("ltWnResult").String()) {
		case ledgerResultWon:
			won = true
			amount += parseLedgerAmount(item.Get("ltWnAmt"))
		case ledgerResultLost:
			lost++
		case ledgerResultNotDrawn:
			undrawn = true
		}
		return true
	})

	log.WithFields(log.Fields{
		"product": product,
		"round":   roundNumber,
		"rows":    rows,
		"won":     won,
	}).Debug("Parsed purchase ledger")

	switch {
	case won:
		return &models.CoarseOutcome{Won: true, Amount: amount}, nil
	case rows > 0 && lost == rows && !undrawn:
		return &models.CoarseOutcome{Won: false}, nil
	default:
		return nil, nil
	}
}

// parseLedgerRound keeps the digits of a round label such as "1100회"
func parseLedgerRound(label string) int64 {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, label)
	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0
	}
	return n
}

func parseLedgerAmount(v gjson.Result) int64 {
	if v.Type == gjson.Number {
		return v.Int()
	}
	n, err := strconv.ParseInt(strings.ReplaceAll(strings.TrimSpace(v.String()), ",", ""), 10, 64)
	if err != nil {
		return 0
	}
	return n
}
