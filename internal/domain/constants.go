package domain

const (
	RoleMember = "MEMBER"
	RoleAdmin  = "ADMIN"
)

const (
	AuctionScheduled = "SCHEDULED"
	AuctionActive    = "ACTIVE"
	AuctionEnded     = "ENDED"
	AuctionCancelled = "CANCELLED"
)

const (
	ItemKindPlain      = "PLAIN"
	ItemKindMysteryBox = "MYSTERY_BOX"
	ItemKindPowerBox   = "POWER_BOX"
)

const (
	PrizeKindGamePoints = "GP"
	PrizeKindXP         = "XP"
	PrizeKindPowerUp    = "POWER_UP"
	PrizeKindNothing    = "NOTHING"
)

const (
	PowerTypeBoost2x = "2x_boost"
	PowerTypeBoost4x = "4x_boost"
	PowerTypeShield  = "shield"
	PowerTypeSiphon  = "siphon"
)

// Balance column names accepted by the ledger. Deltas are only ever
// applied to these two columns.
const (
	BalanceFieldGamePoints = "game_points"
	BalanceFieldXP         = "xp"
)

const (
	NotificationOutbid       = "AUCTION_OUTBID"
	NotificationAuctionWon   = "AUCTION_WON"
	NotificationAuctionEnded = "AUCTION_ENDED"
	NotificationGiftReceived = "GIFT_RECEIVED"
	NotificationPrizeAwarded = "PRIZE_AWARDED"
)

// Mystery boxes carry a fixed-size prize table drawn uniformly.
const MysteryBoxOptionCount = 3

// XP awarded when a plain (non-box) auction item is claimed.
const PlainClaimXPBonus int64 = 50

// A boost runs for 24h once activated; it can sit unexpired in
// inventory indefinitely until then.
const BoostDurationHours = 24
