package opponent

import (
	"math/rand"
	"strings"
	"sync"
	"time"

	"debatehub/internal/questionnaire"
)

// Rand is the source of every random pick. Intn returns a value in [0, n).
type Rand interface {
	Intn(n int) int
}

type lockedRand struct {
	mu  sync.Mutex
	src *rand.Rand
}

// NewRand returns a goroutine-safe Rand seeded with seed.
func NewRand(seed int64) Rand {
	return &lockedRand{src: rand.New(rand.NewSource(seed))}
}

func (r *lockedRand) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.src.Intn(n)
}

var twoStateReplies = map[questionnaire.TwoStateSolution][]string{
	questionnaire.TwoStateSupport: {
		"A two-state solution remains the most viable path to lasting peace.",
		"International consensus supports the establishment of two states.",
		"Economic cooperation would benefit both societies.",
	},
	questionnaire.TwoStateOppose: {
		"Historical and security concerns make a two-state solution impractical.",
		"Past attempts at territorial compromise have led to increased security risks.",
		"A single state with strong security measures is more viable.",
	},
	questionnaire.TwoStateNeutral: {
		"The situation requires careful consideration of both perspectives.",
		"Alternative solutions might be worth exploring.",
		"The focus should be on immediate practical improvements.",
	},
}

var settlementReplies = map[questionnaire.SettlementPolicy][]string{
	questionnaire.SettlementExpand: {
		"Settlement expansion is crucial for security and historical rights.",
		"These communities are vital for Israel's strategic depth.",
		"Development in these areas strengthens Israel's position.",
	},
	questionnaire.SettlementFreeze: {
		"A settlement freeze could create conditions for negotiations.",
		"The current scope of settlements is sufficient.",
		"We should focus on developing existing communities.",
	},
	questionnaire.SettlementWithdraw: {
		"Settlement withdrawal is necessary for peace prospects.",
		"The cost of maintaining settlements outweighs benefits.",
		"Withdrawal would improve international relations.",
	},
}

const (
	SecurityFollowUp = "Security considerations must be balanced with other factors. What specific security concerns are you most focused on?"
	PeaceFollowUp    = "Peace negotiations require compromises from all sides. Which compromises do you think are most crucial?"
	EconomyFollowUp  = "Economic factors are indeed important. How do you see economic cooperation developing in your proposed solution?"
)

type keywordRule struct {
	keywords []string
	reply    string
}

// Checked in order; the first rule with any matching keyword wins.
var keywordRules = []keywordRule{
	{keywords: []string{"security"}, reply: SecurityFollowUp},
	{keywords: []string{"peace", "negotiation"}, reply: PeaceFollowUp},
	{keywords: []string{"economy", "economic"}, reply: EconomyFollowUp},
}

var genericPrompts = []string{
	"That's an interesting perspective. Could you elaborate on your reasoning?",
	"How would you address the practical challenges of implementing that approach?",
	"What evidence supports your position on this matter?",
	"Have you considered the long-term implications of that stance?",
}

// Generator picks canned replies. It holds no conversation state.
type Generator struct {
	rand Rand
}

func NewGenerator(r Rand) *Generator {
	if r == nil {
		r = NewRand(time.Now().UnixNano())
	}
	return &Generator{rand: r}
}

// Reply answers the latest entry of history (message contents, oldest first).
// A history of at most one message is treated as the opening turn.
func (g *Generator) Reply(viewer questionnaire.Response, history []string) string {
	if len(history) <= 1 {
		return g.opening(viewer)
	}

	last := strings.ToLower(history[len(history)-1])
	for _, rule := range keywordRules {
		for _, keyword := range rule.keywords {
			if strings.Contains(last, keyword) {
				return rule.reply
			}
		}
	}
	return g.pick(genericPrompts)
}

// opening draws one line per stance table and then picks between the two.
func (g *Generator) opening(viewer questionnaire.Response) string {
	candidates := []string{
		g.pick(twoStateReplies[viewer.Policies.TwoStateSolution]),
		g.pick(settlementReplies[viewer.Policies.SettlementPolicy]),
	}
	return g.pick(candidates)
}

func (g *Generator) pick(options []string) string {
	if len(options) == 0 {
		return genericPrompts[0]
	}
	return options[g.rand.Intn(len(options))]
}
