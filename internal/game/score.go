package game

import "math"

// CalculateScore converts a session outcome into leaderboard points.
// Base score is the profit percentage times 100, plus an activity bonus of
// 2 points per trade capped at 50. Rounded to one decimal.
func CalculateScore(finalBalance, startBalance float64, trades int) float64 {
	profit := finalBalance - startBalance
	profitPercent := (profit / startBalance) * 100

	score := profitPercent * 100
	tradeBonus := math.Min(float64(trades)*2, 50)

	return math.Round((score+tradeBonus)*10) / 10
}
