package normalizer

import (
	"github.com/riskibarqy/d2webapi/internal/domain/entity"
	"github.com/riskibarqy/d2webapi/internal/domain/rawdata"

	crerr "github.com/cockroachdb/errors"
)

// Normalizer turns raw endpoint bodies into domain entities. It holds no mutable state.
type Normalizer struct {
	resolver entity.Resolver
}

// New builds a Normalizer. A nil resolver resolves every id to its sentinel.
func New(resolver entity.Resolver) *Normalizer {
	if resolver == nil {
		resolver = sentinelResolver{}
	}
	return &Normalizer{resolver: resolver}
}

type sentinelResolver struct{}

func (sentinelResolver) Hero(id entity.OptionalID) entity.Hero       { return entity.UnknownHero(id) }
func (sentinelResolver) Item(id entity.OptionalID) entity.Item       { return entity.UnknownItem(id) }
func (sentinelResolver) Ability(id entity.OptionalID) entity.Ability { return entity.UnknownAbility(id) }

// envelope decodes the payload body and descends through key.
func envelope(payload rawdata.Payload, key string) (Object, error) {
	obj, err := Decode(payload.JSON())
	if err != nil {
		return nil, crerr.Wrapf(err, "decode %s", payload.Endpoint)
	}
	inner, err := unwrap(obj, key)
	if err != nil {
		return nil, crerr.Wrapf(err, "decode %s", payload.Endpoint)
	}
	return inner, nil
}

// unwrap descends one level into key. A payload without key is taken as already unwrapped.
func unwrap(obj Object, key string) (Object, error) {
	if len(obj) == 0 {
		return nil, ErrEmptyPayload
	}
	value, ok := obj[key]
	if !ok {
		return obj, nil
	}
	inner := asObject(value)
	if inner == nil {
		return nil, crerr.Wrapf(ErrMalformedPayload, "%q is not an object", key)
	}
	return inner, nil
}

func (n *Normalizer) hero(id entity.OptionalID) entity.Hero {
	if !id.Valid {
		return entity.UnknownHero(id)
	}
	return n.resolver.Hero(id)
}

func (n *Normalizer) item(id entity.OptionalID) entity.Item {
	if !id.Valid {
		return entity.UnknownItem(id)
	}
	return n.resolver.Item(id)
}

func (n *Normalizer) ability(id entity.OptionalID) entity.Ability {
	if !id.Valid {
		return entity.UnknownAbility(id)
	}
	return n.resolver.Ability(id)
}
