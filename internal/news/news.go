// Package news provides the cosmetic events feed: random market flavor
// headlines and trade notices. Items never influence prices or balances.
package news

import (
	"fmt"
	"math/rand"
	"time"
)

// Sentiment colors an item in the feed.
type Sentiment int

const (
	SentimentNeutral Sentiment = iota
	SentimentPump
	SentimentDump
)

// Item is one entry of the events feed.
type Item struct {
	Text      string
	Sentiment Sentiment
	Time      time.Time
}

var flavorItems = []Item{
	{Text: "📰 Market rally! All prices surge!", Sentiment: SentimentPump},
	{Text: "💥 Market crash! Panic selling!", Sentiment: SentimentDump},
	{Text: "🐋 Whale spotted in the market", Sentiment: SentimentNeutral},
	{Text: "📊 Trading volume spike detected", Sentiment: SentimentNeutral},
}

// Random picks one of the canned flavor headlines.
func Random(rng *rand.Rand) Item {
	item := flavorItems[rng.Intn(len(flavorItems))]
	item.Time = time.Now()
	return item
}

// TradeItem formats a trade notice for the feed.
func TradeItem(verb, symbol string, price float64) Item {
	return Item{
		Text:      fmt.Sprintf("%s 1 %s @ $%.2f", verb, symbol, price),
		Sentiment: SentimentNeutral,
		Time:      time.Now(),
	}
}
