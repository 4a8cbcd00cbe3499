package rules

// CatalogEntry is one selectable option in the character builder.
type CatalogEntry struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

var Races = []CatalogEntry{
	{Name: "Human", Description: "Versatile and ambitious, humans adapt quickly to any situation."},
	{Name: "Elf", Description: "Graceful and long-lived, elves have keen senses and a natural affinity for magic."},
	{Name: "Dwarf", Description: "Stout and resilient, dwarves are known for their craftsmanship and courage."},
	{Name: "Halfling", Description: "Small but brave, halflings are naturally lucky and surprisingly resourceful."},
	{Name: "Dragonborn", Description: "Proud descendants of dragons, they possess draconic heritage and breath weapons."},
	{Name: "Gnome", Description: "Small and curious, gnomes are natural tinkerers with a love for knowledge."},
	{Name: "Half-Elf", Description: "Born of two worlds, half-elves combine human versatility with elven grace."},
	{Name: "Half-Orc", Description: "Caught between worlds, half-orcs possess great strength and fierce determination."},
	{Name: "Tiefling", Description: "Bearing infernal heritage, tieflings overcome prejudice with charm and cunning."},
}

var Classes = []CatalogEntry{
	{Name: "Fighter", Description: "Masters of martial combat, skilled with a variety of weapons and armor."},
	{Name: "Wizard", Description: "Scholarly magic-users capable of manipulating the forces of the universe."},
	{Name: "Cleric", Description: "Priestly champions who wield divine magic in service of higher powers."},
	{Name: "Rogue", Description: "Scoundrels who use stealth and trickery to overcome obstacles."},
	{Name: "Ranger", Description: "Warriors of the wilderness, skilled in tracking and survival."},
	{Name: "Paladin", Description: "Holy warriors bound by sacred oaths to fight against darkness."},
	{Name: "Barbarian", Description: "Fierce warriors who can enter a battle rage to devastating effect."},
	{Name: "Bard", Description: "Masters of magic through music, stories, and performance."},
	{Name: "Druid", Description: "Guardians of nature who can shapeshift and cast nature magic."},
	{Name: "Monk", Description: "Disciplined warriors who harness inner power through martial arts."},
	{Name: "Sorcerer", Description: "Spellcasters who draw on inherent magical power from within."},
	{Name: "Warlock", Description: "Wielders of magic derived from a pact with an extraplanar entity."},
}

var Backgrounds = []CatalogEntry{
	{Name: "Acolyte", Description: "You have spent your life in service to a temple or religious order."},
	{Name: "Criminal", Description: "You are an experienced criminal with a history of breaking the law."},
	{Name: "Folk Hero", Description: "You come from humble origins, but you are destined for greater things."},
	{Name: "Noble", Description: "You understand wealth and power, coming from a privileged upbringing."},
	{Name: "Sage", Description: "You spent years learning the lore of the multiverse."},
	{Name: "Soldier", Description: "You have a military background and experience with warfare."},
	{Name: "Charlatan", Description: "You have always had a way with people, using charm and wit to get ahead."},
	{Name: "Entertainer", Description: "You thrive before an audience, knowing how to entrance them."},
	{Name: "Guild Artisan", Description: "You are a member of an artisan guild, skilled in a particular craft."},
	{Name: "Hermit", Description: "You lived in seclusion for years, seeking enlightenment or answers."},
	{Name: "Outlander", Description: "You grew up in the wilds, far from civilization and comfort."},
	{Name: "Sailor", Description: "You sailed on a seagoing vessel and know the ways of the sea."},
}
