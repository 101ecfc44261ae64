package service

import (
	"math/rand"
	"strconv"
	"sync"
	"time"

	"economy/models"
)

// Reward ranges and odds. Ranges are inclusive.
const (
	WorkMin = 50
	WorkMax = 200

	CrimeSuccessChance = 0.6
	CrimeRewardMin     = 200
	CrimeRewardMax     = 1000
	CrimeFineMin       = 50
	CrimeFineMax       = 250

	RobSuccessChance  = 0.4
	RobMinTarget      = 100
	RobMaxSteal       = 1000
	RobStealPercent   = 10
	RobPenaltyPercent = 5

	DicePayoutMultiplier  = 5
	SlotsTripleMultiplier = 10
	SlotsPairMultiplier   = 2

	MessageActivityMin      = 1
	MessageActivityMax      = 5
	VoiceSecondsPerCurrency = 30
)

// SlotSymbols is the reel alphabet
var SlotSymbols = []string{"🍒", "🍋", "🍊", "🍇", "🔔", "💎"}

// RandomSource is the entropy used by the reward engine. *rand.Rand satisfies it.
type RandomSource interface {
	Intn(n int) int
	Float64() float64
}

type lockedSource struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewRandomSource returns a RandomSource that is safe for concurrent use
func NewRandomSource(seed int64) RandomSource {
	return &lockedSource{rnd: rand.New(rand.NewSource(seed))}
}

// NewTimeSeededRandomSource seeds a concurrent-safe RandomSource from the clock
func NewTimeSeededRandomSource() RandomSource {
	return NewRandomSource(time.Now().UnixNano())
}

func (s *lockedSource) Intn(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rnd.Intn(n)
}

func (s *lockedSource) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rnd.Float64()
}

// CrimeOutcome is a crime roll. Amount is the reward on success and the fine otherwise.
type CrimeOutcome struct {
	Success bool
	Amount  int64
}

// RobOutcome is a robbery roll. Stolen moves from target to robber, Penalty is burned.
type RobOutcome struct {
	Success bool
	Stolen  int64
	Penalty int64
}

// GameOutcome is a wager roll with the signed change to apply to the player
type GameOutcome struct {
	Won     bool
	Delta   int64
	Outcome string
	Symbols []string
}

// RewardEngine computes payouts and penalties. It never touches storage.
type RewardEngine struct {
	rng         RandomSource
	dailyAmount int64
}

// NewRewardEngine creates a reward engine paying dailyAmount for the daily claim
func NewRewardEngine(rng RandomSource, dailyAmount int64) *RewardEngine {
	return &RewardEngine{rng: rng, dailyAmount: dailyAmount}
}

func (r *RewardEngine) uniform(min, max int64) int64 {
	return min + int64(r.rng.Intn(int(max-min+1)))
}

// DailyReward is the configured fixed daily amount
func (r *RewardEngine) DailyReward() int64 {
	return r.dailyAmount
}

func (r *RewardEngine) WorkReward() int64 {
	return r.uniform(WorkMin, WorkMax)
}

func (r *RewardEngine) CrimeOutcome() CrimeOutcome {
	if r.rng.Float64() < CrimeSuccessChance {
		return CrimeOutcome{Success: true, Amount: r.uniform(CrimeRewardMin, CrimeRewardMax)}
	}
	return CrimeOutcome{Success: false, Amount: r.uniform(CrimeFineMin, CrimeFineMax)}
}

// ApplyCrimeFine returns the balance after a failed crime.
// Existing accounts floor at zero; an account created by this very attempt keeps the debt.
func ApplyCrimeFine(balance, fine int64, firstUse bool) int64 {
	if firstUse {
		return balance - fine
	}
	return max(0, balance-fine)
}

// CanBeRobbed reports whether a target holds enough to attempt a robbery
func CanBeRobbed(targetBalance int64) bool {
	return targetBalance >= RobMinTarget
}

// RobOutcome rolls a robbery. The caller must check CanBeRobbed first.
func (r *RewardEngine) RobOutcome(targetBalance, robberBalance int64) RobOutcome {
	if r.rng.Float64() < RobSuccessChance {
		return RobOutcome{Success: true, Stolen: min(RobMaxSteal, targetBalance*RobStealPercent/100)}
	}
	return RobOutcome{Success: false, Penalty: max(0, robberBalance*RobPenaltyPercent/100)}
}

func (r *RewardEngine) CoinflipOutcome(choice models.CoinSide, bet int64) GameOutcome {
	side := models.CoinHeads
	if r.rng.Intn(2) == 1 {
		side = models.CoinTails
	}
	if side == choice {
		return GameOutcome{Won: true, Delta: bet, Outcome: string(side)}
	}
	return GameOutcome{Won: false, Delta: -bet, Outcome: string(side)}
}

func (r *RewardEngine) DiceOutcome(guess int, bet int64) GameOutcome {
	roll := r.rng.Intn(6) + 1
	if roll == guess {
		return GameOutcome{Won: true, Delta: bet * DicePayoutMultiplier, Outcome: strconv.Itoa(roll)}
	}
	return GameOutcome{Won: false, Delta: -bet, Outcome: strconv.Itoa(roll)}
}

// SlotsOutcome spins three independent reels. Triples pay 10x, any pair 2x, otherwise the bet is lost.
func (r *RewardEngine) SlotsOutcome(bet int64) GameOutcome {
	symbols := make([]string, 3)
	for i := range symbols {
		symbols[i] = SlotSymbols[r.rng.Intn(len(SlotSymbols))]
	}
	reel := symbols[0] + symbols[1] + symbols[2]

	switch {
	case symbols[0] == symbols[1] && symbols[1] == symbols[2]:
		return GameOutcome{Won: true, Delta: bet * SlotsTripleMultiplier, Outcome: reel, Symbols: symbols}
	case symbols[0] == symbols[1] || symbols[1] == symbols[2] || symbols[0] == symbols[2]:
		return GameOutcome{Won: true, Delta: bet * SlotsPairMultiplier, Outcome: reel, Symbols: symbols}
	default:
		return GameOutcome{Won: false, Delta: -bet, Outcome: reel, Symbols: symbols}
	}
}

// MessageActivityReward is the passive income for one chat message
func (r *RewardEngine) MessageActivityReward() int64 {
	return r.uniform(MessageActivityMin, MessageActivityMax)
}

// VoiceActivityReward pays one unit per full 30 seconds spent in voice
func VoiceActivityReward(d time.Duration) int64 {
	if d <= 0 {
		return 0
	}
	return int64(d/time.Second) / VoiceSecondsPerCurrency
}

// DuelChallengerWins flips the fair coin that settles a duel
func (r *RewardEngine) DuelChallengerWins() bool {
	return r.rng.Intn(2) == 0
}
