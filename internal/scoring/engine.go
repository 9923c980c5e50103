package scoring

// Input holds the signals that feed a waitlist entry's score.
type Input struct {
	DealValue  float64 // estimated proposal value (valor_estimado_proposta)
	Source     string  // lead source (origem)
	Priority   int     // caller-assigned priority, 1-10
	TenureDays int     // days since the client record was created
}

// Maximum score a waitlist entry can carry.
const MaxScore = 100

// Additive contribution of each known lead source. Unknown or empty
// sources fall back to the baseline.
var sourceWeights = map[string]int{
	"indicacao": 20,
	"google":    15,
	"facebook":  10,
}

const sourceBaseline = 5

// ComputeScore blends deal value, lead source, manual priority and client
// tenure into a 0-100 score. Deterministic and side-effect free; invalid or
// negative inputs contribute zero.
func ComputeScore(in Input) int {
	score := dealValueBand(in.DealValue)

	if w, ok := sourceWeights[in.Source]; ok {
		score += w
	} else {
		score += sourceBaseline
	}

	if in.Priority > 0 {
		score += in.Priority * 3
	}

	score += tenureBand(in.TenureDays)

	if score > MaxScore {
		return MaxScore
	}
	return score
}

func dealValueBand(value float64) int {
	switch {
	case value >= 50000:
		return 40
	case value >= 20000:
		return 30
	case value >= 10000:
		return 20
	case value >= 5000:
		return 10
	default:
		return 0
	}
}

func tenureBand(days int) int {
	switch {
	case days >= 365:
		return 10
	case days >= 180:
		return 7
	case days >= 90:
		return 5
	case days >= 30:
		return 3
	default:
		return 0
	}
}
