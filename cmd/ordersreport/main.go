// ordersreport 拉取订单历史并按策略归属生成报表：终端表格，
// 可选导出 Excel 留档。
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/xuri/excelize/v2"

	"range-trader-go/config"
	"range-trader-go/gateway"
	"range-trader-go/order"
)

func main() {
	cfgPath := flag.String("config", "configs/config.yaml", "配置文件路径")
	xlsxPath := flag.String("xlsx", "", "导出 Excel 的路径，留空则只打印表格")
	onlyStrategy := flag.Bool("onlyStrategy", false, "只显示本策略的订单")
	flag.Parse()

	cfg, err := config.LoadWithEnvOverrides(*cfgPath)
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}
	identity, err := order.NewIdentity(cfg.Strategy.OrderIDPrefix)
	if err != nil {
		log.Fatalf("初始化订单标识失败: %v", err)
	}

	cli := &gateway.BinanceRESTClient{
		BaseURL:      cfg.Gateway.BaseURL,
		APIKey:       cfg.Gateway.APIKey,
		Secret:       cfg.Gateway.APISecret,
		HTTPClient:   gateway.NewDefaultHTTPClient(),
		RecvWindowMs: cfg.Gateway.RecvWindowMs,
		Limiter:      gateway.NewTokenBucketLimiter(cfg.Gateway.RestRate, cfg.Gateway.RestBurst),
	}

	symbol := strings.ToUpper(cfg.Strategy.Symbol)
	orders, err := cli.AllOrders(context.Background(), symbol)
	if err != nil {
		log.Fatalf("拉取订单失败: %v", err)
	}

	classifier := &order.Classifier{ID: identity}
	set := classifier.Classify(orders)

	rows := orders
	if *onlyStrategy {
		rows = nil
		for _, o := range orders {
			if _, _, ok := identity.Decode(o); ok {
				rows = append(rows, o)
			}
		}
	}

	renderTable(identity, symbol, rows, set)

	if *xlsxPath != "" {
		if err := writeXLSX(identity, rows, *xlsxPath); err != nil {
			log.Fatalf("导出 Excel 失败: %v", err)
		}
		fmt.Printf("report written to %s\n", *xlsxPath)
	}
}

func renderTable(identity *order.Identity, symbol string, rows []order.Order, set order.ClassifiedSet) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetTitle(fmt.Sprintf("%s ORDER HISTORY (%d strategy-owned / %d total)",
		symbol, len(set.StrategyOwned), len(set.All)))
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"Client Order ID", "Phase", "Token", "Side", "Price", "Qty", "Executed", "Status"})

	for _, o := range rows {
		phase, token := "-", "-"
		if p, tok, ok := identity.Decode(o); ok {
			phase, token = string(p), tok
		}
		t.AppendRow(table.Row{
			o.EffectiveID(), phase, token, string(o.Side),
			fmt.Sprintf("%.4f", o.Price),
			fmt.Sprintf("%.2f", o.Quantity),
			fmt.Sprintf("%.2f", o.ExecutedQty),
			string(o.Status),
		})
	}
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 5, Align: text.AlignRight},
		{Number: 6, Align: text.AlignRight},
		{Number: 7, Align: text.AlignRight},
	})
	t.Render()
}

func writeXLSX(identity *order.Identity, rows []order.Order, path string) error {
	fx := excelize.NewFile()
	defer fx.Close()

	const sheet = "Orders"
	fx.SetSheetName(fx.GetSheetName(0), sheet)

	headers := []string{"Client Order ID", "Phase", "Token", "Side", "Price", "Qty", "Executed", "Status"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := fx.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
	}
	for r, o := range rows {
		phase, token := "", ""
		if p, tok, ok := identity.Decode(o); ok {
			phase, token = string(p), tok
		}
		values := []interface{}{
			o.EffectiveID(), phase, token, string(o.Side),
			o.Price, o.Quantity, o.ExecutedQty, string(o.Status),
		}
		for c, v := range values {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			if err := fx.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
		}
	}
	return fx.SaveAs(path)
}
