package engine

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"geoquiz-service/internal/domain"
)

const optionCount = 4

// Generator builds question sequences from candidate pools. All randomness
// flows through the injected source so generation is deterministic in tests.
type Generator struct {
	rnd *rand.Rand
}

// NewGenerator returns a generator seeded from rnd, or from the wall clock
// when rnd is nil.
func NewGenerator(rnd *rand.Rand) *Generator {
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Generator{rnd: rnd}
}

// Generate produces exactly settings.QuestionCount questions from the pools
// relevant to the quiz type. It is a pure function of (settings, pools, rnd):
// no side effects, and an empty required pool is an explicit error rather
// than a silently short result.
func (g *Generator) Generate(settings domain.Settings, countries []domain.Country, states []domain.State) ([]domain.Question, error) {
	if err := ValidateSettings(settings); err != nil {
		return nil, err
	}

	switch settings.QuizType {
	case domain.QuizArithmetic:
		return g.arithmeticQuestions(settings), nil
	case domain.QuizStateCapitals:
		return g.stateQuestions(settings, states)
	default:
		return g.countryQuestions(settings, countries)
	}
}

// ValidateSettings rejects settings the generator cannot honor.
func ValidateSettings(settings domain.Settings) error {
	if settings.QuestionCount <= 0 {
		return fmt.Errorf("%w: question count %d", domain.ErrInvalidSettings, settings.QuestionCount)
	}
	switch settings.QuizType {
	case domain.QuizFlags, domain.QuizCapitals, domain.QuizMixed, domain.QuizArithmetic, domain.QuizStateCapitals:
	default:
		return fmt.Errorf("%w: quiz type %q", domain.ErrInvalidSettings, settings.QuizType)
	}
	switch settings.Difficulty {
	case domain.DifficultyEasy, domain.DifficultyMedium, domain.DifficultyHard, domain.DifficultyMixed:
	default:
		return fmt.Errorf("%w: difficulty %q", domain.ErrInvalidSettings, settings.Difficulty)
	}
	if settings.TimeLimitSeconds < 0 {
		return fmt.Errorf("%w: time limit %d", domain.ErrInvalidSettings, settings.TimeLimitSeconds)
	}
	return nil
}

func (g *Generator) countryQuestions(settings domain.Settings, countries []domain.Country) ([]domain.Question, error) {
	pool := countries
	if settings.QuizType == domain.QuizCapitals {
		pool = withCapitals(countries)
	}
	if len(pool) == 0 {
		return nil, fmt.Errorf("%w: countries", domain.ErrPoolUnavailable)
	}

	order := g.rnd.Perm(len(pool))
	questions := make([]domain.Question, 0, settings.QuestionCount)
	for i := 0; i < settings.QuestionCount; i++ {
		country := pool[order[i%len(order)]]
		kind := g.kindFor(settings.QuizType)
		if kind == domain.KindCapitalToCountry && country.Capital == "" {
			kind = domain.KindFlagToCountry
		}

		var prompt, correct string
		var distractors []string
		switch kind {
		case domain.KindCapitalToCountry:
			prompt = fmt.Sprintf("What is the capital of %s?", country.Name)
			correct = country.Capital
			distractors = g.drawDistractors(correct, capitalValues(pool, country))
		case domain.KindMapToCountry:
			prompt = "Which country is shown on this map?"
			correct = country.Name
			distractors = g.drawDistractors(correct, nameValues(pool, country))
		default:
			prompt = fmt.Sprintf("Which country does this flag belong to? %s", country.Flag)
			correct = country.Name
			distractors = g.drawDistractors(correct, nameValues(pool, country))
		}

		difficulty := g.difficultyFor(settings.Difficulty)
		questions = append(questions, domain.Question{
			ID:            uuid.NewString(),
			Kind:          kind,
			Prompt:        prompt,
			Options:       g.shuffledOptions(correct, distractors),
			CorrectAnswer: correct,
			Difficulty:    difficulty,
			Points:        PointsFor(difficulty),
			Explanation:   countryExplanation(kind, country),
		})
	}
	return questions, nil
}

func (g *Generator) stateQuestions(settings domain.Settings, states []domain.State) ([]domain.Question, error) {
	pool := make([]domain.State, 0, len(states))
	for _, s := range states {
		if s.Capital != "" {
			pool = append(pool, s)
		}
	}
	if len(pool) == 0 {
		return nil, fmt.Errorf("%w: states", domain.ErrPoolUnavailable)
	}

	order := g.rnd.Perm(len(pool))
	questions := make([]domain.Question, 0, settings.QuestionCount)
	for i := 0; i < settings.QuestionCount; i++ {
		state := pool[order[i%len(order)]]
		correct := state.Capital

		candidates := make([]string, 0, len(pool)-1)
		for _, other := range pool {
			if other.Name != state.Name {
				candidates = append(candidates, other.Capital)
			}
		}
		distractors := g.drawDistractors(correct, candidates)

		difficulty := g.difficultyFor(settings.Difficulty)
		questions = append(questions, domain.Question{
			ID:            uuid.NewString(),
			Kind:          domain.KindCapitalToCountry,
			Prompt:        fmt.Sprintf("What is the capital of %s?", state.Name),
			Options:       g.shuffledOptions(correct, distractors),
			CorrectAnswer: correct,
			Difficulty:    difficulty,
			Points:        PointsFor(difficulty),
			Explanation:   fmt.Sprintf("%s is the capital of %s.", state.Capital, state.Name),
		})
	}
	return questions, nil
}

func (g *Generator) arithmeticQuestions(settings domain.Settings) []domain.Question {
	questions := make([]domain.Question, 0, settings.QuestionCount)
	for i := 0; i < settings.QuestionCount; i++ {
		difficulty := g.difficultyFor(settings.Difficulty)
		a, b := g.addends(difficulty)
		questions = append(questions, g.additionQuestion(a, b, difficulty))
	}
	return questions
}

// addends draws the two operands for an addition problem. The easy band uses
// [100,499] and [100,399]; medium and hard use [300,999] and [300,899].
func (g *Generator) addends(difficulty domain.Difficulty) (int, int) {
	if difficulty == domain.DifficultyEasy {
		return 100 + g.rnd.Intn(400), 100 + g.rnd.Intn(300)
	}
	return 300 + g.rnd.Intn(700), 300 + g.rnd.Intn(600)
}

// additionQuestion builds the question for a fixed pair of addends. Distractors
// are the correct sum plus a uniform perturbation in [-100,100], floored at
// 100, re-drawn until all options are distinct.
func (g *Generator) additionQuestion(a, b int, difficulty domain.Difficulty) domain.Question {
	correct := a + b
	seen := map[int]struct{}{correct: {}}
	distractors := make([]string, 0, optionCount-1)
	for len(distractors) < optionCount-1 {
		v := correct + g.rnd.Intn(201) - 100
		if v < 100 {
			v = 100
		}
		if _, dup := seen[v]; dup {
			// Bounded walk keeps generation terminating even when the
			// perturbation range is exhausted around small sums.
			for _, dup = seen[v]; dup; _, dup = seen[v] {
				v++
			}
		}
		seen[v] = struct{}{}
		distractors = append(distractors, fmt.Sprintf("%d", v))
	}

	correctStr := fmt.Sprintf("%d", correct)
	return domain.Question{
		ID:            uuid.NewString(),
		Kind:          domain.KindArithmetic,
		Prompt:        fmt.Sprintf("%d + %d = ?", a, b),
		Options:       g.shuffledOptions(correctStr, distractors),
		CorrectAnswer: correctStr,
		Difficulty:    difficulty,
		Points:        PointsFor(difficulty),
		Explanation:   fmt.Sprintf("%d + %d = %d", a, b, correct),
	}
}

// MatchRound builds a capital-match round: one question per selected country,
// each sharing the round's full capital list as options. Option lists are
// variable-length by design.
func (g *Generator) MatchRound(countries []domain.Country, pairs int) ([]domain.Question, error) {
	if pairs <= 0 {
		return nil, fmt.Errorf("%w: pair count %d", domain.ErrInvalidSettings, pairs)
	}
	pool := withCapitals(countries)
	if len(pool) == 0 {
		return nil, fmt.Errorf("%w: countries", domain.ErrPoolUnavailable)
	}
	if pairs > len(pool) {
		pairs = len(pool)
	}

	order := g.rnd.Perm(len(pool))
	selected := make([]domain.Country, 0, pairs)
	capitals := make([]string, 0, pairs)
	for _, idx := range order {
		c := pool[idx]
		if containsOption(capitals, c.Capital) {
			continue
		}
		selected = append(selected, c)
		capitals = append(capitals, c.Capital)
		if len(selected) == pairs {
			break
		}
	}

	questions := make([]domain.Question, 0, len(selected))
	for _, c := range selected {
		options := append([]string(nil), capitals...)
		g.rnd.Shuffle(len(options), func(i, j int) {
			options[i], options[j] = options[j], options[i]
		})
		questions = append(questions, domain.Question{
			ID:            uuid.NewString(),
			Kind:          domain.KindCapitalMatch,
			Prompt:        fmt.Sprintf("Which capital matches %s?", c.Name),
			Options:       options,
			CorrectAnswer: c.Capital,
			Difficulty:    domain.DifficultyEasy,
			Points:        PointsFor(domain.DifficultyEasy),
			Explanation:   fmt.Sprintf("%s is the capital of %s.", c.Capital, c.Name),
		})
	}
	return questions, nil
}

// drawDistractors picks up to optionCount-1 distinct values, excluding the
// correct answer. Pools smaller than the option count degrade gracefully.
func (g *Generator) drawDistractors(correct string, candidates []string) []string {
	unique := make([]string, 0, len(candidates))
	seen := map[string]struct{}{correct: {}}
	for _, v := range candidates {
		if v == "" {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		unique = append(unique, v)
	}

	want := optionCount - 1
	if want > len(unique) {
		want = len(unique)
	}
	picked := make([]string, 0, want)
	for _, idx := range g.rnd.Perm(len(unique))[:want] {
		picked = append(picked, unique[idx])
	}
	return picked
}

// shuffledOptions places the correct answer uniformly at random among the
// distractors.
func (g *Generator) shuffledOptions(correct string, distractors []string) []string {
	options := make([]string, 0, len(distractors)+1)
	options = append(options, correct)
	options = append(options, distractors...)
	g.rnd.Shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
	})
	return options
}

func (g *Generator) kindFor(quizType domain.QuizType) domain.QuestionKind {
	switch quizType {
	case domain.QuizCapitals:
		return domain.KindCapitalToCountry
	case domain.QuizMixed:
		kinds := []domain.QuestionKind{domain.KindFlagToCountry, domain.KindCapitalToCountry, domain.KindMapToCountry}
		return kinds[g.rnd.Intn(len(kinds))]
	default:
		return domain.KindFlagToCountry
	}
}

func (g *Generator) difficultyFor(d domain.Difficulty) domain.Difficulty {
	if d != domain.DifficultyMixed {
		return d
	}
	concrete := []domain.Difficulty{domain.DifficultyEasy, domain.DifficultyMedium, domain.DifficultyHard}
	return concrete[g.rnd.Intn(len(concrete))]
}

// PointsFor maps difficulty to the per-question reward.
func PointsFor(d domain.Difficulty) int {
	switch d {
	case domain.DifficultyMedium:
		return 15
	case domain.DifficultyHard:
		return 20
	default:
		return 10
	}
}

func withCapitals(countries []domain.Country) []domain.Country {
	pool := make([]domain.Country, 0, len(countries))
	for _, c := range countries {
		if c.Capital != "" {
			pool = append(pool, c)
		}
	}
	return pool
}

func nameValues(pool []domain.Country, exclude domain.Country) []string {
	values := make([]string, 0, len(pool)-1)
	for _, c := range pool {
		if c.Code != exclude.Code {
			values = append(values, c.Name)
		}
	}
	return values
}

func capitalValues(pool []domain.Country, exclude domain.Country) []string {
	values := make([]string, 0, len(pool)-1)
	for _, c := range pool {
		if c.Code != exclude.Code && c.Capital != "" {
			values = append(values, c.Capital)
		}
	}
	return values
}

func countryExplanation(kind domain.QuestionKind, c domain.Country) string {
	if kind == domain.KindCapitalToCountry {
		return fmt.Sprintf("%s is the capital of %s.", c.Capital, c.Name)
	}
	return fmt.Sprintf("%s is in %s with a population of %d.", c.Name, c.Continent, c.Population)
}

func containsOption(options []string, v string) bool {
	for _, o := range options {
		if o == v {
			return true
		}
	}
	return false
}
