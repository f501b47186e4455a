// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package echoviz

import (
	"fmt"
	"strings"
)

// DefaultClassEmoji is used for classes missing from the lookup table.
const DefaultClassEmoji = "🔈"

// esc50Emoji maps ESC-50 class labels to a representative glyph.
var esc50Emoji = map[string]string{
	"dog":              "🐕",
	"rain":             "🌧️",
	"crying_baby":      "👶",
	"door_wood_knock":  "🚪",
	"helicopter":       "🚁",
	"rooster":          "🐓",
	"sea_waves":        "🌊",
	"sneezing":         "🤧",
	"mouse_click":      "🖱️",
	"chainsaw":         "🪚",
	"pig":              "🐷",
	"crackling_fire":   "🔥",
	"clapping":         "👏",
	"keyboard_typing":  "⌨️",
	"siren":            "🚨",
	"cow":              "🐄",
	"crickets":         "🦗",
	"breathing":        "💨",
	"door_wood_creaks": "🚪",
	"car_horn":         "📯",
	"frog":             "🐸",
	"chirping_birds":   "🐦",
	"coughing":         "😷",
	"can_opening":      "🥫",
	"engine":           "🚗",
	"cat":              "🐱",
	"water_drops":      "💧",
	"footsteps":        "👣",
	"washing_machine":  "🧺",
	"train":            "🚂",
	"hen":              "🐔",
	"wind":             "💨",
	"laughing":         "😂",
	"vacuum_cleaner":   "🧹",
	"church_bells":     "🔔",
	"insects":          "🦟",
	"pouring_water":    "🚰",
	"brushing_teeth":   "🪥",
	"clock_alarm":      "⏰",
	"airplane":         "✈️",
	"sheep":            "🐑",
	"toilet_flush":     "🚽",
	"snoring":          "😴",
	"clock_tick":       "⏱️",
	"fireworks":        "🎆",
	"crow":             "🐦‍⬛",
	"thunderstorm":     "⛈️",
	"drinking_sipping": "🥤",
	"glass_breaking":   "🔨",
	"hand_saw":         "🪚",
}

// ClassEmoji returns the glyph associated to an ESC-50 class label,
// or DefaultClassEmoji.
func ClassEmoji(class string) string {
	if e, ok := esc50Emoji[class]; ok {
		return e
	}
	return DefaultClassEmoji
}

// DisplayClass turns a class label into readable text.
func DisplayClass(class string) string {
	return strings.ReplaceAll(class, "_", " ")
}

// FormatConfidence formats a confidence in [0, 1] as a percentage with
// one decimal digit.
func FormatConfidence(confidence float64) string {
	return fmt.Sprintf("%.1f%%", confidence*100)
}

// TopPredictions returns at most k predictions, in the order they were
// received (the inference endpoint sorts them by confidence).
// A non-positive k returns nil.
func (r *Response) TopPredictions(k int) []Prediction {
	if k <= 0 || len(r.Predictions) == 0 {
		return nil
	}
	if k > len(r.Predictions) {
		k = len(r.Predictions)
	}
	out := make([]Prediction, k)
	copy(out, r.Predictions[:k])
	return out
}
