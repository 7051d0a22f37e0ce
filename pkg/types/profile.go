// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Split names a data partition the extractor runs over.
type Split string

const (
	SplitTrain Split = "train"
	SplitVal   Split = "val"
)

// Default per-split extraction thresholds, applied when a profile leaves
// them unset.
const (
	DefaultTrainThreshold = 0.15
	DefaultValThreshold   = 0.25
)

// Profile is one named batch configuration: the checkpoint directory tag
// the extractor reads from, the token ids to process per split, and the
// per-split thresholds. Profiles are immutable once selected.
type Profile struct {
	// Name identifies the profile in the registry and on the command line.
	Name string `json:"name" yaml:"name"`

	// Tag is the dataset/checkpoint directory grouping passed through to
	// the extractor (e.g. "shakespeare_64x4"). Defaults to Name.
	Tag string `json:"tag,omitempty" yaml:"tag,omitempty"`

	// TrainTokenIDs and ValTokenIDs list the token ids to extract,
	// processed in order. Either list may be empty.
	TrainTokenIDs []int `json:"train_token_ids" yaml:"train_token_ids"`
	ValTokenIDs   []int `json:"val_token_ids" yaml:"val_token_ids"`

	// TrainThreshold and ValThreshold are passed through unmodified to the
	// extractor. Zero means use the split default (0.15 train, 0.25 val).
	TrainThreshold float64 `json:"train_threshold,omitempty" yaml:"train_threshold,omitempty"`
	ValThreshold   float64 `json:"val_threshold,omitempty" yaml:"val_threshold,omitempty"`
}

// ApplyDefaults fills the tag and zero thresholds in place.
func (p *Profile) ApplyDefaults() {
	if p.Tag == "" {
		p.Tag = p.Name
	}
	if p.TrainThreshold == 0 {
		p.TrainThreshold = DefaultTrainThreshold
	}
	if p.ValThreshold == 0 {
		p.ValThreshold = DefaultValThreshold
	}
}

// TokenIDs returns the id list for the given split.
func (p Profile) TokenIDs(s Split) []int {
	if s == SplitTrain {
		return p.TrainTokenIDs
	}
	return p.ValTokenIDs
}

// Threshold returns the threshold for the given split.
func (p Profile) Threshold(s Split) float64 {
	if s == SplitTrain {
		return p.TrainThreshold
	}
	return p.ValThreshold
}
