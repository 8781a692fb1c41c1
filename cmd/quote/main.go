package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"sort"
	"time"

	"MarketEngine/internal/service/engine"

	"github.com/Rhymond/go-money"
)

func main() {
	addr := flag.String("addr", "http://localhost:5000", "engine base URL")
	timeout := flag.Duration("timeout", 30*time.Second, "request timeout")
	health := flag.Bool("health", false, "only check that the engine is up")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()
	client := engine.New(*addr, *timeout)

	if *health {
		if err := client.Health(ctx); err != nil {
			log.Fatalf("engine down: %v", err)
		}
		fmt.Println("UP")
		return
	}

	tickers := flag.Args()
	if len(tickers) == 0 {
		fmt.Fprintln(os.Stderr, "usage: quote [-addr URL] [-health] TICKER [TICKER...]")
		os.Exit(2)
	}

	if len(tickers) == 1 {
		q, err := client.Price(ctx, tickers[0])
		if errors.Is(err, engine.ErrNotFound) {
			fmt.Printf("%s: not found\n", tickers[0])
			os.Exit(1)
		}
		if err != nil {
			log.Fatalf("quote failed: %v", err)
		}
		fmt.Printf("%s: %s\n", q.Ticker, display(q))
		return
	}

	quotes, failed, err := client.Prices(ctx, tickers)
	if err != nil {
		log.Fatalf("quote failed: %v", err)
	}
	symbols := make([]string, 0, len(quotes)+len(failed))
	for s := range quotes {
		symbols = append(symbols, s)
	}
	for s := range failed {
		symbols = append(symbols, s)
	}
	sort.Strings(symbols)
	for _, s := range symbols {
		if q, ok := quotes[s]; ok {
			fmt.Printf("%s: %s\n", s, display(&q))
			continue
		}
		fmt.Printf("%s: %s\n", s, failed[s])
	}
	if len(failed) > 0 {
		os.Exit(1)
	}
}

func display(q *engine.Quote) string {
	code := q.Currency
	if code == "" {
		code = money.USD
	}
	cur := money.GetCurrency(code)
	if cur == nil {
		return q.Price.StringFixed(2) + " " + code
	}
	minor := q.Price.Shift(int32(cur.Fraction)).Round(0).IntPart()
	return money.New(minor, code).Display()
}
