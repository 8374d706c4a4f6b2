package entity

// Resolver maps catalog ids to descriptive records. Unknown or absent ids resolve to sentinels.
type Resolver interface {
	Hero(id OptionalID) Hero
	Item(id OptionalID) Item
	Ability(id OptionalID) Ability
}

func UnknownHero(id OptionalID) Hero {
	return Hero{ID: id, Name: UnknownHeroName}
}

func UnknownItem(id OptionalID) Item {
	return Item{ID: id, Name: UnknownItemName, Aliases: []string{}}
}

func UnknownAbility(id OptionalID) Ability {
	return Ability{ID: id, Name: UnknownAbilityName}
}
