// Package gateway 实现与 Binance 现货 REST/WS 的最小连接层。
// 传输层的失败原样返回给调用方，由对账轮归类为同步失败处理。
package gateway

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"sort"
	"strings"
)

// SignParams 将参数按 key 排序编码为 query string，并计算 HMAC-SHA256 签名。
// Binance 对签名的要求：签名基于最终发送的 query 原文。
func SignParams(params map[string]string, secret string) (query, signature string) {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(k))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(params[k]))
	}
	query = b.String()

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(query))
	signature = hex.EncodeToString(mac.Sum(nil))
	return query, signature
}
