package models

import "time"

// GameKind identifies a wager game
type GameKind string

const (
	GameCoinflip GameKind = "coinflip"
	GameDice     GameKind = "dice"
	GameSlots    GameKind = "slots"
)

// CoinSide is a coinflip face
type CoinSide string

const (
	CoinHeads CoinSide = "heads"
	CoinTails CoinSide = "tails"
)

// WagerParams carries the per-game player choice
type WagerParams struct {
	Choice CoinSide // coinflip
	Guess  int      // dice, 1..6
}

// ActionResult is returned by the timed economy actions (daily, work, crime, rob)
type ActionResult struct {
	Action     CooldownAction
	Success    bool  // crime and rob can fail
	Delta      int64 // signed change applied to the caller
	NewBalance int64
	// TargetID and TargetBalance are set for rob
	TargetID      int64
	TargetBalance int64
	NextAvailable time.Time
}

// WagerResult represents the outcome of a gambling game
type WagerResult struct {
	Game       GameKind
	Bet        int64
	Won        bool
	Delta      int64
	NewBalance int64
	// Outcome is "heads"/"tails" for coinflip, "1".."6" for dice and the reel for slots
	Outcome string
	Symbols []string
}

// TransferResult represents the outcome of a transfer (returned to the user)
type TransferResult struct {
	Amount         int64
	NewFromBalance int64
	NewToBalance   int64
}

// DuelResult describes a resolved duel
type DuelResult struct {
	Duel             *Duel
	WinnerID         int64
	LoserID          int64
	Pot              int64
	NewWinnerBalance int64
	NewLoserBalance  int64
}

// PurchaseResult represents a shop purchase
type PurchaseResult struct {
	Item        *ShopItem
	Quantity    int64
	TotalPrice  int64
	NewBalance  int64
	NewQuantity int64
}

// MarketPurchaseResult represents a completed marketplace trade
type MarketPurchaseResult struct {
	Listing          *MarketplaceListing
	TotalPrice       int64
	NewBuyerBalance  int64
	NewSellerBalance int64
	NewBuyerQuantity int64
}
