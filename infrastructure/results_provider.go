package infrastructure

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"lottoledger/models"

	log "github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
)

// DHLotteryResultsProvider fetches official draw numbers from the
// lottery operator's public JSON endpoint
type DHLotteryResultsProvider struct {
	baseURL string
	client  *http.Client
}

// NewDHLotteryResultsProvider creates a results provider against baseURL
func NewDHLotteryResultsProvider(baseURL string, timeout time.Duration) *DHLotteryResultsProvider {
	return &DHLotteryResultsProvider{
		baseURL: baseURL,
		client:  newHTTPClient(timeout),
	}
}

// FetchOfficialNumbers implements service.ResultsProvider
func (p *DHLotteryResultsProvider) FetchOfficialNumbers(ctx context.Context, roundNumber int64) (*models.OfficialResult, error) {
	endpoint, err := url.Parse(p.baseURL)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid results url %q: %v", models.ErrProviderError, p.baseURL, err)
	}
	query := endpoint.Query()
	query.Set("method", "getLottoNumber")
	query.Set("drwNo", strconv.FormatInt(roundNumber, 10))
	endpoint.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to build request: %v", models.ErrProviderError, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: round %d: %v", models.ErrProviderError, roundNumber, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: round %d: unexpected status %d", models.ErrProviderError, roundNumber, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %v", models.ErrProviderError, err)
	}

	return parseOfficialResult(body, roundNumber)
}

// parseOfficialResult decodes a getLottoNumber payload. The endpoint answers
// returnValue "fail" for rounds that have not been drawn.
func parseOfficialResult(body []byte, roundNumber int64) (*models.OfficialResult, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("%w: round %d: response is not JSON", models.ErrProviderError, roundNumber)
	}

	doc := gjson.ParseBytes(body)
	if status := doc.Get("returnValue").String(); status != "success" {
		log.WithFields(log.Fields{
			"round":       roundNumber,
			"returnValue": status,
		}).Debug("Round not drawn yet")
		return nil, fmt.Errorf("%w: round %d", models.ErrResultsUnavailable, roundNumber)
	}

	drawDate, err := time.Parse("2006-01-02", doc.Get("drwNoDate").String())
	if err != nil {
		return nil, fmt.Errorf("%w: round %d: bad draw date: %v", models.ErrProviderError, roundNumber, err)
	}

	winning := make([]int, 0, models.PickCount)
	for i := 1; i <= models.PickCount; i++ {
		field := doc.Get(fmt.Sprintf("drwtNo%d", i))
		if !field.Exists() {
			return nil, fmt.Errorf("%w: round %d: missing drwtNo%d", models.ErrProviderError, roundNumber, i)
		}
		winning = append(winning, int(field.Int()))
	}

	bonus := doc.Get("bnusNo")
	if !bonus.Exists() {
		return nil, fmt.Errorf("%w: round %d: missing bnusNo", models.ErrProviderError, roundNumber)
	}

	return &models.OfficialResult{
		RoundNumber:    doc.Get("drwNo").Int(),
		DrawDate:       drawDate,
		WinningNumbers: winning,
		BonusNumber:    int(bonus.Int()),
	}, nil
}
