// Package loot loads weighted loot tables and draws random drops from them.
//
// A table is built from lines of the form "name,tries". Each entry's drop
// chance is not configured directly; it is back-solved from the number of
// tries after which the item should have dropped at least once with the
// table's confidence:
//
//	dropChance = 1 - (1 - confidence)^(1/tries)
package loot

import (
	"math"
	"strconv"
)

// DefaultConfidence is 95% certainty (a 5% risk of misadventure)
const DefaultConfidence = 0.95

// inverseTolerance absorbs rounding when TriesForChance re-checks a candidate
const inverseTolerance = 1e-12

// CalcDropChance converts tries-to-certainty into a per-try drop chance.
// tries must be at least 1 and confidence must lie strictly between 0 and 1.
func CalcDropChance(tries int, confidence float64) (float64, error) {
	if tries < 1 {
		return 0, &InvalidTriesError{Text: strconv.Itoa(tries)}
	}
	if !validConfidence(confidence) {
		return 0, &InvalidConfidenceError{Confidence: confidence}
	}
	if tries == 1 {
		return confidence, nil
	}
	// failure = risk^(1/tries), success = 1 - failure, kept in log space so
	// huge tries or tiny confidence do not cancel to zero
	chance := -math.Expm1(math.Log1p(-confidence) / float64(tries))
	if chance <= 0 {
		chance = math.SmallestNonzeroFloat64
	}
	return chance, nil
}

// TriesForChance is the inverse of CalcDropChance: the smallest number of
// tries after which an item with the given per-try chance has dropped at
// least once with the given confidence.
func TriesForChance(chance, confidence float64) (int, error) {
	if !validConfidence(confidence) {
		return 0, &InvalidConfidenceError{Confidence: confidence}
	}
	if math.IsNaN(chance) || chance <= 0 || chance > 1 {
		return 0, &InvalidChanceError{Chance: chance}
	}
	reached := func(n int) bool {
		return -math.Expm1(float64(n)*math.Log1p(-chance)) >= confidence-inverseTolerance
	}
	exact := math.Log1p(-confidence) / math.Log1p(-chance)
	if exact > math.MaxInt32 {
		return 0, &InvalidChanceError{Chance: chance}
	}
	tries := int(math.Ceil(exact))
	if tries < 1 {
		tries = 1
	}
	// ceil can land one off either way on rounding error
	for tries > 1 && reached(tries-1) {
		tries--
	}
	for !reached(tries) {
		tries++
	}
	return tries, nil
}

func validConfidence(confidence float64) bool {
	return !math.IsNaN(confidence) && confidence > 0 && confidence < 1
}
