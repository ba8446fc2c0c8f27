package indexer

import (
	"context"

	"github.com/make-software/casper-go-sdk/types"
	"github.com/make-software/casper-go-sdk/types/key"

	"github.com/backit-onchain/oracle/pkg/eventhandler"
)

// EventDecoder turns the transforms a deploy made to a watched contract into contract events.
type EventDecoder interface {
	DecodeEvents(ctx context.Context, contract key.Hash, transforms []types.TransformKey) ([]eventhandler.ContractEvent, error)
}

// NoopDecoder decodes nothing. The contracts' event encoding is not part of the node protocol, so
// no decoding is attempted until a decoder for it is installed.
type NoopDecoder struct{}

func (NoopDecoder) DecodeEvents(context.Context, key.Hash, []types.TransformKey) ([]eventhandler.ContractEvent, error) {
	return nil, nil
}

// ContractTransforms returns, per watched contract, the transforms keyed by that contract's hash.
func ContractTransforms(transforms []types.TransformKey, watched []key.Hash) map[key.Hash][]types.TransformKey {
	if len(watched) == 0 {
		return nil
	}
	keys := make(map[key.Hash]struct{}, len(watched))
	for _, h := range watched {
		keys[h] = struct{}{}
	}

	result := make(map[key.Hash][]types.TransformKey)
	for _, t := range transforms {
		if t.Key.Type != key.TypeIDHash || t.Key.Hash == nil {
			continue
		}
		if _, ok := keys[*t.Key.Hash]; ok {
			result[*t.Key.Hash] = append(result[*t.Key.Hash], t)
		}
	}
	return result
}

var _ EventDecoder = NoopDecoder{}
