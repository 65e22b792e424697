package skills

// Effect labels double as message keys for translated catalogs.
var effects = map[Attribute][MaxLevel]string{
	Strength: {
		"Weakness 2",
		"Weakness 1",
		"No effect",
		"No effect",
		"No effect",
		"Strength 1",
	},
	Toughness: {
		"7 hearts",
		"8 hearts",
		"9 hearts",
		"10 hearts",
		"11 hearts",
		"12 hearts",
	},
	Agility: {
		"Slowness",
		"No effect",
		"No effect",
		"No effect",
		"No effect",
		"Speed 1",
	},
	Intelligence: {
		"Character with cognitive difficulties",
		"Character with difficulties who can utter random words",
		"Has difficulties but can express themselves normally",
		"Can hold a conversation without difficulty and do modest arithmetic",
		"Can do advanced arithmetic and read complex texts",
		"Character with above-average intelligence",
	},
	Craft: {
		"The artisan has just started learning the craft",
		"The artisan is getting comfortable with the tools and understands the basics",
		"The artisan has enough experience to make items of average quality",
		"The artisan masters the basic techniques and starts producing more complex items",
		"The artisan masters the basics and experiments with advanced techniques",
		"The artisan is renowned for their know-how and expertise",
	},
}

// Effects returns the six labels of attr, indexed by level-1.
func Effects(attr Attribute) []string {
	row, ok := effects[attr]
	if !ok {
		return nil
	}
	out := make([]string, len(row))
	copy(out, row[:])
	return out
}

// EffectAt returns the label of attr at level, or "" when either is unknown.
func EffectAt(attr Attribute, level int) string {
	row, ok := effects[attr]
	if !ok || level < MinLevel || level > MaxLevel {
		return ""
	}
	return row[level-1]
}
