package domain

import (
	"fmt"
	"strings"
)

// ModelTier selects one whisper quality preset.
type ModelTier string

const (
	ModelTierTiny   ModelTier = "tiny"
	ModelTierBase   ModelTier = "base"
	ModelTierSmall  ModelTier = "small"
	ModelTierMedium ModelTier = "medium"
	ModelTierLarge  ModelTier = "large"
)

// ModelOption describes one downloadable whisper.cpp model preset.
type ModelOption struct {
	Tier        ModelTier `json:"tier"`
	Name        string    `json:"name"`
	FileName    string    `json:"fileName"`
	URL         string    `json:"url"`
	SizeLabel   string    `json:"sizeLabel,omitempty"`
	Description string    `json:"description,omitempty"`
	Downloaded  bool      `json:"downloaded"`
	LocalPath   string    `json:"localPath,omitempty"`
}

// ModelCatalog lists the built-in whisper.cpp model presets, one per tier.
var ModelCatalog = []ModelOption{
	{
		Tier:        ModelTierTiny,
		Name:        "Tiny",
		FileName:    "ggml-tiny.bin",
		URL:         "https://huggingface.co/ggerganov/whisper.cpp/resolve/main/ggml-tiny.bin",
		SizeLabel:   "~75 MB",
		Description: "Fastest model, lowest quality.",
	},
	{
		Tier:        ModelTierBase,
		Name:        "Base",
		FileName:    "ggml-base.bin",
		URL:         "https://huggingface.co/ggerganov/whisper.cpp/resolve/main/ggml-base.bin",
		SizeLabel:   "~142 MB",
		Description: "Balanced speed and quality.",
	},
	{
		Tier:        ModelTierSmall,
		Name:        "Small",
		FileName:    "ggml-small.bin",
		URL:         "https://huggingface.co/ggerganov/whisper.cpp/resolve/main/ggml-small.bin",
		SizeLabel:   "~466 MB",
		Description: "Higher quality, slower.",
	},
	{
		Tier:        ModelTierMedium,
		Name:        "Medium",
		FileName:    "ggml-medium.bin",
		URL:         "https://huggingface.co/ggerganov/whisper.cpp/resolve/main/ggml-medium.bin",
		SizeLabel:   "~1.5 GB",
		Description: "High quality, much slower.",
	},
	{
		Tier:        ModelTierLarge,
		Name:        "Large",
		FileName:    "ggml-large-v3.bin",
		URL:         "https://huggingface.co/ggerganov/whisper.cpp/resolve/main/ggml-large-v3.bin",
		SizeLabel:   "~2.9 GB",
		Description: "Best quality, slowest.",
	},
}

// ModelByTier returns the catalog entry for one tier.
func ModelByTier(tier ModelTier) (ModelOption, bool) {
	for _, model := range ModelCatalog {
		if model.Tier == tier {
			return model, true
		}
	}
	return ModelOption{}, false
}

// ParseModelTier validates a user-supplied model tier name.
func ParseModelTier(raw string) (ModelTier, error) {
	tier := ModelTier(strings.ToLower(strings.TrimSpace(raw)))
	if _, ok := ModelByTier(tier); !ok {
		return "", fmt.Errorf("unknown model tier: %s", raw)
	}
	return tier, nil
}
