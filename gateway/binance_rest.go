package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"range-trader-go/order"
)

// BinanceSpotEndpoint 现货 REST 默认入口。
const BinanceSpotEndpoint = "https://api.binance.com"

// BinanceRESTClient 可签名的简化现货客户端；HTTPClient 可注入 httptest。
type BinanceRESTClient struct {
	BaseURL      string
	APIKey       string
	Secret       string
	HTTPClient   *http.Client
	RecvWindowMs int64
	Limiter      RateLimiter
}

// NewDefaultHTTPClient 提供一个带超时的 http.Client。
func NewDefaultHTTPClient() *http.Client {
	return &http.Client{Timeout: 10 * time.Second}
}

// timeNowMillis 可在测试中替换以获得确定性的签名。
var timeNowMillis = func() int64 { return time.Now().UnixMilli() }

// apiError Binance 的标准错误报文 {"code":-2010,"msg":"..."}。
type apiError struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
}

func (e *apiError) Error() string {
	return fmt.Sprintf("binance error %d: %s", e.Code, e.Msg)
}

// AllOrders 拉取该交易对的全量订单历史（含活跃与终态）。
func (c *BinanceRESTClient) AllOrders(ctx context.Context, symbol string) ([]order.Order, error) {
	body, err := c.signedRequest(ctx, http.MethodGet, "/api/v3/allOrders", map[string]string{
		"symbol": symbol,
	})
	if err != nil {
		return nil, err
	}
	var wire []wireOrder
	if err := json.Unmarshal(body, &wire); err != nil {
		return nil, fmt.Errorf("decode allOrders: %w", err)
	}
	orders := make([]order.Order, 0, len(wire))
	for _, w := range wire {
		o, err := w.toOrder()
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, nil
}

// AvgPrice 当前加权均价，作为阶梯中心的参考价。公开接口，无需签名。
func (c *BinanceRESTClient) AvgPrice(ctx context.Context, symbol string) (float64, error) {
	body, err := c.publicRequest(ctx, "/api/v3/avgPrice", map[string]string{"symbol": symbol})
	if err != nil {
		return 0, err
	}
	var resp struct {
		Mins  int    `json:"mins"`
		Price string `json:"price"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return 0, fmt.Errorf("decode avgPrice: %w", err)
	}
	price, err := strconv.ParseFloat(resp.Price, 64)
	if err != nil || price <= 0 {
		return 0, fmt.Errorf("malformed avgPrice %q", resp.Price)
	}
	return price, nil
}

// AccountBalances 返回账户各资产的可用余额。
func (c *BinanceRESTClient) AccountBalances(ctx context.Context) (map[string]float64, error) {
	body, err := c.signedRequest(ctx, http.MethodGet, "/api/v3/account", nil)
	if err != nil {
		return nil, err
	}
	var resp struct {
		Balances []struct {
			Asset string `json:"asset"`
			Free  string `json:"free"`
		} `json:"balances"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decode account: %w", err)
	}
	free := make(map[string]float64, len(resp.Balances))
	for _, b := range resp.Balances {
		v, err := strconv.ParseFloat(b.Free, 64)
		if err != nil {
			return nil, fmt.Errorf("malformed free balance %q for %s", b.Free, b.Asset)
		}
		free[b.Asset] = v
	}
	return free, nil
}

// PlaceOrder 提交一笔限价单。newClientOrderId 原样透传——id 就是
// 策略的归属与关联机制，不允许交易所自行分配。
func (c *BinanceRESTClient) PlaceOrder(ctx context.Context, it order.Intent) (order.Order, error) {
	body, err := c.signedRequest(ctx, http.MethodPost, "/api/v3/order", map[string]string{
		"symbol":           it.Symbol,
		"side":             string(it.Side),
		"type":             string(it.Type),
		"timeInForce":      string(it.TimeInForce),
		"price":            formatDecimal(it.Price),
		"quantity":         formatDecimal(it.Quantity),
		"newClientOrderId": it.ClientOrderID,
	})
	if err != nil {
		return order.Order{}, err
	}
	var w wireOrder
	if err := json.Unmarshal(body, &w); err != nil {
		return order.Order{}, fmt.Errorf("decode order ack: %w", err)
	}
	// ACK 型回报可能缺省部分字段，尽力转换，失败时回退到意图本身
	o, convErr := w.toOrder()
	if convErr != nil {
		o = order.Order{
			ClientOrderID: it.ClientOrderID,
			Symbol:        it.Symbol,
			Side:          it.Side,
			Type:          it.Type,
			Price:         it.Price,
			Quantity:      it.Quantity,
			Status:        order.StatusNew,
			TimeInForce:   it.TimeInForce,
		}
	}
	if o.ClientOrderID != it.ClientOrderID {
		return order.Order{}, fmt.Errorf("exchange replaced client order id %q with %q", it.ClientOrderID, o.ClientOrderID)
	}
	return o, nil
}

func (c *BinanceRESTClient) signedRequest(ctx context.Context, method, path string, params map[string]string) ([]byte, error) {
	if c.HTTPClient == nil {
		return nil, fmt.Errorf("http client not set")
	}
	if params == nil {
		params = map[string]string{}
	}
	params["timestamp"] = strconv.FormatInt(timeNowMillis(), 10)
	if c.RecvWindowMs > 0 {
		params["recvWindow"] = strconv.FormatInt(c.RecvWindowMs, 10)
	}
	query, sig := SignParams(params, c.Secret)
	endpoint := c.BaseURL + path + "?" + query + "&signature=" + url.QueryEscape(sig)

	req, err := http.NewRequestWithContext(ctx, method, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-MBX-APIKEY", c.APIKey)
	return c.do(req)
}

func (c *BinanceRESTClient) publicRequest(ctx context.Context, path string, params map[string]string) ([]byte, error) {
	if c.HTTPClient == nil {
		return nil, fmt.Errorf("http client not set")
	}
	q := url.Values{}
	for k, v := range params {
		q.Set(k, v)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	return c.do(req)
}

func (c *BinanceRESTClient) do(req *http.Request) ([]byte, error) {
	if c.Limiter != nil {
		c.Limiter.Wait()
	}
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 300 {
		var apiErr apiError
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Msg != "" {
			return nil, &apiErr
		}
		return nil, fmt.Errorf("%s %s status %d: %s", req.Method, req.URL.Path, resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return body, nil
}
