package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"fintools/internal/feature/conversion/domain/entity"
	"fintools/internal/feature/conversion/usecase"
	"fintools/internal/platform/externalapi/yahoo/dto"
)

// YahooProvider はYahoo Finance検索APIからISINに対応する銘柄候補を取得するProvider実装です。
type YahooProvider struct {
	cfg    Config
	client *http.Client
}

// YahooProviderがProviderを実装していることをコンパイル時に検証します。
var _ usecase.Provider = (*YahooProvider)(nil)

// NewYahooProvider は指定された設定とHTTPクライアントでYahooProviderの新しいインスタンスを生成します。
func NewYahooProvider(cfg Config, client *http.Client) *YahooProvider {
	if cfg.QuotesCount <= 0 {
		cfg.QuotesCount = DefaultConfig().QuotesCount
	}
	return &YahooProvider{cfg: cfg, client: client}
}

// Lookup はISINで検索し、見つかった (取引所コード, ティッカー) の候補をAPIの順序のまま返します。
func (y *YahooProvider) Lookup(ctx context.Context, isin string) ([]entity.Candidate, error) {
	q := url.Values{}
	q.Set("q", isin)
	q.Set("quotesCount", strconv.Itoa(y.cfg.QuotesCount))
	q.Set("newsCount", "0")

	u := fmt.Sprintf("%s/v1/finance/search?%s", y.cfg.BaseURL, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	res, err := y.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			slog.Warn("failed to close response body", "error", err)
		}
	}()

	if res.StatusCode >= 400 {
		return nil, fmt.Errorf("yahoo http %d", res.StatusCode)
	}

	var body dto.SearchResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode yahoo search response: %w", err)
	}
	if body.Finance != nil && body.Finance.Error != nil {
		return nil, fmt.Errorf("yahoo: %s: %s", body.Finance.Error.Code, body.Finance.Error.Description)
	}

	candidates := make([]entity.Candidate, 0, len(body.Quotes))
	for _, quote := range body.Quotes {
		// News and other non-security hits carry no symbol.
		if quote.Symbol == "" {
			continue
		}
		candidates = append(candidates, entity.Candidate{
			Exchange: quote.Exchange,
			Ticker:   quote.Symbol,
		})
	}
	return candidates, nil
}
