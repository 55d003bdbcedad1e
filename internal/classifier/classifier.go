package classifier

import (
	"regexp"
	"strings"
)

// Kind is the outcome of classifying one user message.
type Kind int

const (
	// KindSubstantive marks a message that should go through retrieval
	// and generation.
	KindSubstantive Kind = iota
	// KindRestricted marks a message asking for code, credentials,
	// system internals, or trying to bypass instructions.
	KindRestricted
	// KindHumanLike marks a conversational pleasantry answered from a
	// canned response set.
	KindHumanLike
)

// Result carries the classification outcome. Category is set only for
// KindHumanLike and names the matched phrase category.
type Result struct {
	Kind     Kind
	Category string
}

// restrictedPattern pairs a compiled pattern with the intent group it
// guards against. The slice order is the evaluation order.
type restrictedPattern struct {
	group   string
	pattern *regexp.Regexp
}

var restrictedPatterns = []restrictedPattern{
	// Code and implementation disclosure.
	{"code", regexp.MustCompile(`(?i)show me your code`)},
	{"code", regexp.MustCompile(`(?i)give me your code`)},
	{"code", regexp.MustCompile(`(?i)provide.*code`)},
	{"code", regexp.MustCompile(`(?i)source code`)},
	{"code", regexp.MustCompile(`(?i)your implementation`)},
	{"code", regexp.MustCompile(`(?i)how are you built`)},
	{"code", regexp.MustCompile(`(?i)your architecture`)},

	// Credential and secret disclosure.
	{"credentials", regexp.MustCompile(`(?i)api key`)},
	{"credentials", regexp.MustCompile(`(?i)token`)},
	{"credentials", regexp.MustCompile(`(?i)password`)},
	{"credentials", regexp.MustCompile(`(?i)credentials`)},
	{"credentials", regexp.MustCompile(`(?i)secret`)},
	{"credentials", regexp.MustCompile(`(?i)private key`)},
	{"credentials", regexp.MustCompile(`(?i)access key`)},

	// System and configuration disclosure.
	{"system", regexp.MustCompile(`(?i)system prompt`)},
	{"system", regexp.MustCompile(`(?i)your prompt`)},
	{"system", regexp.MustCompile(`(?i)instructions`)},
	{"system", regexp.MustCompile(`(?i)configuration`)},
	{"system", regexp.MustCompile(`(?i)database`)},
	{"system", regexp.MustCompile(`(?i)server`)},
	{"system", regexp.MustCompile(`(?i)backend`)},

	// Prompt-bypass attempts.
	{"bypass", regexp.MustCompile(`(?i)ignore.*instructions`)},
	{"bypass", regexp.MustCompile(`(?i)forget.*rules`)},
	{"bypass", regexp.MustCompile(`(?i)act as`)},
	{"bypass", regexp.MustCompile(`(?i)pretend to be`)},
	{"bypass", regexp.MustCompile(`(?i)jailbreak`)},
	{"bypass", regexp.MustCompile(`(?i)override`)},
}

// humanLikeCategory pairs a category name with the exact phrases that
// belong to it. Matching is against the whole trimmed, lowercased
// message, never a substring.
type humanLikeCategory struct {
	name    string
	phrases map[string]struct{}
}

var humanLikeCategories = []humanLikeCategory{
	{"thanks", phraseSet("thank you", "thanks", "thank u", "thanku", "thx", "ty", "appreciate", "grateful")},
	{"greetings", phraseSet("hi", "hello", "hey", "good morning", "good afternoon", "good evening", "howdy")},
	{"compliments", phraseSet("good", "great", "excellent", "awesome", "amazing", "perfect", "nice", "cool", "wonderful", "fantastic", "brilliant")},
	{"goodbye", phraseSet("bye", "goodbye", "see you", "take care", "farewell", "cya", "later")},
	{"positive", phraseSet("yes", "yeah", "yep", "ok", "okay", "sure", "alright", "sounds good")},
	{"wow", phraseSet("wow", "omg", "amazing", "incredible", "unbelievable")},
}

func phraseSet(phrases ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(phrases))
	for _, p := range phrases {
		set[p] = struct{}{}
	}
	return set
}

// Classify routes a message into exactly one kind. Restricted-intent
// patterns are checked before human-like phrases so a bypass attempt
// dressed up as a greeting still gets refused. Classification is total:
// it never fails, whatever the input.
func Classify(message string) Result {
	for _, rp := range restrictedPatterns {
		if rp.pattern.MatchString(message) {
			return Result{Kind: KindRestricted, Category: rp.group}
		}
	}
	normalized := strings.ToLower(strings.TrimSpace(message))
	for _, cat := range humanLikeCategories {
		if _, ok := cat.phrases[normalized]; ok {
			return Result{Kind: KindHumanLike, Category: cat.name}
		}
	}
	return Result{Kind: KindSubstantive}
}
