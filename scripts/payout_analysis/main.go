// Standalone payout analysis for the wager games.
// It drives the same RewardEngine the ledger uses and compares observed returns to the paytable.
package main

import (
	"flag"
	"fmt"
	"math"

	"economy/models"
	"economy/service"
)

const bet = int64(100)

func main() {
	trials := flag.Int("trials", 200000, "spins per game")
	seed := flag.Int64("seed", 1, "random seed")
	flag.Parse()

	rewards := service.NewRewardEngine(service.NewRandomSource(*seed), 100)

	fmt.Println("=== Wager Payout Analysis ===")
	fmt.Println()

	analyzeGame("coinflip", *trials, expectedCoinflip(), func() service.GameOutcome {
		return rewards.CoinflipOutcome(models.CoinHeads, bet)
	})
	analyzeGame("dice", *trials, expectedDice(), func() service.GameOutcome {
		return rewards.DiceOutcome(3, bet)
	})
	analyzeGame("slots", *trials, expectedSlots(), func() service.GameOutcome {
		return rewards.SlotsOutcome(bet)
	})

	fmt.Println()
	diceUniformity(rewards, *trials)
}

// expected* return the theoretical net result per unit staked
func expectedCoinflip() float64 {
	return 0.5*1 - 0.5*1
}

func expectedDice() float64 {
	return float64(service.DicePayoutMultiplier)/6 - 5.0/6
}

func expectedSlots() float64 {
	n := float64(len(service.SlotSymbols))
	total := n * n * n
	triple := n / total
	distinct := n * (n - 1) * (n - 2) / total
	pair := 1 - triple - distinct
	return triple*service.SlotsTripleMultiplier + pair*service.SlotsPairMultiplier - distinct
}

func analyzeGame(name string, trials int, expected float64, spin func() service.GameOutcome) {
	var wins int
	var net int64
	for i := 0; i < trials; i++ {
		outcome := spin()
		if outcome.Won {
			wins++
		}
		net += outcome.Delta
	}

	observed := float64(net) / float64(int64(trials)*bet)
	fmt.Printf("%-9s | Trials: %d | Win rate: %6.2f%% | Net per unit: %+.4f | Paytable: %+.4f",
		name, trials, float64(wins)/float64(trials)*100, observed, expected)

	if math.Abs(observed-expected) <= 0.05 {
		fmt.Println(" ✓ PASS")
	} else {
		fmt.Println(" ✗ FAIL")
	}
}

// diceUniformity runs a chi-squared test over the die faces
func diceUniformity(rewards *service.RewardEngine, trials int) {
	faces := make(map[string]int, 6)
	for i := 0; i < trials; i++ {
		faces[rewards.DiceOutcome(1, bet).Outcome]++
	}

	expectedPerFace := float64(trials) / 6
	chiSquared := 0.0
	fmt.Printf("Dice faces (each should land ~%.0f times):\n", expectedPerFace)
	for face := 1; face <= 6; face++ {
		count := faces[fmt.Sprint(face)]
		chiSquared += math.Pow(float64(count)-expectedPerFace, 2) / expectedPerFace
		fmt.Printf("  %d: %7d (%+5.2f%%)\n", face, count, (float64(count)-expectedPerFace)/expectedPerFace*100)
	}
	fmt.Printf("χ² (uniformity): %.2f (should be < 11.07 for 95%% confidence with 5 df)\n", chiSquared)
}
