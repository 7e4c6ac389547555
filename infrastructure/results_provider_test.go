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

const drawnRoundJSON = `{
	"totSellamnt": 111840714000,
	"returnValue": "success",
	"drwNoDate": "2024-01-06",
	"firstWinamnt": 1862334018,
	"drwtNo6": 43,
	"drwtNo4": 16,
	"firstPrzwnerCo": 14,
	"drwtNo5": 33,
	"bnusNo": 4,
	"firstAccumamnt": 26072676252,
	"drwNo": 1100,
	"drwtNo2": 13,
	"drwtNo3": 15,
	"drwtNo1": 2
}`

func TestDHLotteryResultsProvider_FetchOfficialNumbers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		status  int
		body    string
		want    *models.OfficialResult
		wantErr error
	}{
		{
			name:   "drawn round",
			status: http.StatusOK,
			body:   drawnRoundJSON,
			want: &models.OfficialResult{
				RoundNumber:    1100,
				DrawDate:       time.Date(2024, 1, 6, 0, 0, 0, 0, time.UTC),
				WinningNumbers: []int{2, 13, 15, 16, 33, 43},
				BonusNumber:    4,
			},
		},
		{
			name:    "round not drawn yet",
			status:  http.StatusOK,
			body:    `{"returnValue":"fail"}`,
			wantErr: models.ErrResultsUnavailable,
		},
		{
			name:    "server error",
			status:  http.StatusInternalServerError,
			body:    `oops`,
			wantErr: models.ErrProviderError,
		},
		{
			name:    "html maintenance page",
			status:  http.StatusOK,
			body:    `<html><body>점검중</body></html>`,
			wantErr: models.ErrProviderError,
		},
		{
			name:    "missing number",
			status:  http.StatusOK,
			body:    `{"returnValue":"success","drwNo":1100,"drwNoDate":"2024-01-06","drwtNo1":2,"bnusNo":4}`,
			wantErr: models.ErrProviderError,
		},
		{
			name:    "bad draw date",
			status:  http.StatusOK,
			body:    `{"returnValue":"success","drwNo":1100,"drwNoDate":"06/01/2024"}`,
			wantErr: models.ErrProviderError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "getLottoNumber", r.URL.Query().Get("method"))
				assert.Equal(t, "1100", r.URL.Query().Get("drwNo"))
				w.WriteHeader(tt.status)
				fmt.Fprint(w, tt.body)
			}))
			defer server.Close()

			provider := NewDHLotteryResultsProvider(server.URL+"/common.do", time.Second)
			got, err := provider.FetchOfficialNumbers(context.Background(), 1100)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDHLotteryResultsProvider_Timeout(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer server.Close()
	defer close(release)

	provider := NewDHLotteryResultsProvider(server.URL, 50*time.Millisecond)
	_, err := provider.FetchOfficialNumbers(context.Background(), 1100)
	assert.ErrorIs(t, err, models.ErrProviderError)
}

func TestDHLotteryResultsProvider_InvalidBaseURL(t *testing.T) {
	t.Parallel()

	provider := NewDHLotteryResultsProvider("://nope", time.Second)
	_, err := provider.FetchOfficialNumbers(context.Background(), 1100)
	assert.ErrorIs(t, err, models.ErrProviderError)
}
