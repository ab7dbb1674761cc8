package core

// TrustLevel is a discrete band of the trust score
type TrustLevel string

const (
	TrustLevelLow    TrustLevel = "low"
	TrustLevelMedium TrustLevel = "medium"
	TrustLevelHigh   TrustLevel = "high"
)

const (
	MinScore = 0
	MaxScore = 100

	// FallbackScore is granted to wallets without any recorded history
	FallbackScore  = 20
	FallbackReason = "No history found for this wallet."

	highThreshold   = 70
	mediumThreshold = 40

	verifiedWalletBonus = 20
	verifiedIDBonus     = 20
	firstLoanBonus      = 10
	extraLoanBonus      = 5
	extraLoanCap        = 25
	cleanStreakBonus    = 10
	cleanStreakMinLoans = 3
	latePenalty         = 15
	defaultPenalty      = 30

	// Counters past this point cannot move a clamped score, so they are saturated
	// before multiplication.
	maxCountedEvents = 1 << 16
)

// TrustRecord is a user's verification and loan history
type TrustRecord struct {
	WalletAddress  string `json:"walletAddress"`
	VerifiedWallet bool   `json:"verifiedWallet"`
	VerifiedID     bool   `json:"verifiedId"`
	CompletedLoans int    `json:"completedLoans"`
	LateRepayments int    `json:"lateRepayments"`
	Defaults       int    `json:"defaults"`
}

// TrustScore is the outcome of scoring a trust record
type TrustScore struct {
	Score  int        `json:"score"`
	Level  TrustLevel `json:"level"`
	Reason string     `json:"reason,omitempty"`
}

// FallbackTrustScore is returned for wallets with no history
func FallbackTrustScore() TrustScore {
	return TrustScore{
		Score:  FallbackScore,
		Level:  LevelForScore(FallbackScore),
		Reason: FallbackReason,
	}
}

// Score computes the trust score of a record. Bonuses and penalties are summed
// first and the total is clamped once at the end.
func Score(record TrustRecord) TrustScore {
	loans := counter(record.CompletedLoans)
	late := counter(record.LateRepayments)
	defaults := counter(record.Defaults)

	score := 0

	if record.VerifiedWallet {
		score += verifiedWalletBonus
	}
	if record.VerifiedID {
		score += verifiedIDBonus
	}

	if loans > 0 {
		score += firstLoanBonus
		score += min((loans-1)*extraLoanBonus, extraLoanCap)
	}

	if late == 0 && loans >= cleanStreakMinLoans {
		score += cleanStreakBonus
	}

	score -= late * latePenalty
	score -= defaults * defaultPenalty

	score = max(MinScore, min(MaxScore, score))

	return TrustScore{
		Score: score,
		Level: LevelForScore(score),
	}
}

// LevelForScore maps a clamped score to its trust level
func LevelForScore(score int) TrustLevel {
	switch {
	case score >= highThreshold:
		return TrustLevelHigh
	case score >= mediumThreshold:
		return TrustLevelMedium
	default:
		return TrustLevelLow
	}
}

// counter treats negative counts as zero and saturates very large ones
func counter(n int) int {
	return max(0, min(n, maxCountedEvents))
}
