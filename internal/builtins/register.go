package builtins

// DefaultRegistry is the default global registry of all built-in
// functions, populated on package initialization (spec §4.6).
var DefaultRegistry *Registry

func init() {
	DefaultRegistry = NewRegistry()
	RegisterAll(DefaultRegistry)
}

// RegisterAll registers every built-in function family with r. Callers
// that want a reduced or customized set can build their own Registry and
// call only the RegisterXFunctions they need.
func RegisterAll(r *Registry) {
	RegisterListFunctions(r)
	RegisterMapFunctions(r)
	RegisterColorFunctions(r)
	RegisterMathFunctions(r)
	RegisterStringFunctions(r)
	RegisterMetaFunctions(r)
}

func RegisterListFunctions(r *Registry) {
	r.Register("length", Length, CategoryList, "Returns the number of items in a list (or pairs in a map)")
	r.Register("nth", Nth, CategoryList, "Returns the item at a 1-indexed (or negative) position")
	r.Register("set-nth", SetNth, CategoryList, "Returns a copy of a list with one item replaced")
	r.Register("append", Append, CategoryList, "Returns a copy of a list with a value appended")
	r.Register("join", Join, CategoryList, "Joins two lists, with an optional separator override")
	r.Register("index", Index, CategoryList, "Returns the 1-indexed position of a value in a list, or null")
	r.Register("is-bracketed", IsBracketed, CategoryList, "Returns true if a list is written with brackets")
	r.Register("list-separator", ListSeparator, CategoryList, "Returns \"space\" or \"comma\" for a list's separator")
	r.Register("zip", Zip, CategoryList, "Combines several lists into a list of tuples")
}

func RegisterMapFunctions(r *Registry) {
	r.Register("map-get", MapGet, CategoryMap, "Returns the value for a key, or null")
	r.Register("map-has-key", MapHasKey, CategoryMap, "Returns whether a map has a given key")
	r.Register("map-keys", MapKeys, CategoryMap, "Returns a map's keys as a comma-separated list")
	r.Register("map-values", MapValues, CategoryMap, "Returns a map's values as a comma-separated list")
	r.Register("map-merge", MapMerge, CategoryMap, "Returns a new map with two maps' entries merged")
	r.Register("map-remove", MapRemove, CategoryMap, "Returns a copy of a map with the given keys removed")
}

func RegisterColorFunctions(r *Registry) {
	r.Register("rgb", RGB, CategoryColor, "Builds an opaque color from red, green, and blue channels")
	r.Register("rgba", RGBA, CategoryColor, "Builds a color from red, green, blue, and alpha channels")
	r.Register("hsl", HSL, CategoryColor, "Builds an opaque color from hue, saturation, and lightness")
	r.Register("hsla", HSLA, CategoryColor, "Builds a color from hue, saturation, lightness, and alpha")
	r.Register("red", Red, CategoryColor, "Returns a color's red channel")
	r.Register("green", Green, CategoryColor, "Returns a color's green channel")
	r.Register("blue", Blue, CategoryColor, "Returns a color's blue channel")
	r.Register("alpha", Alpha, CategoryColor, "Returns a color's alpha channel")
	r.Register("opacity", Alpha, CategoryColor, "Returns a color's alpha channel (alias for alpha)")
	r.Register("mix", Mix, CategoryColor, "Mixes two colors by weight")
	r.Register("lighten", Lighten, CategoryColor, "Lightens a color by a percentage")
	r.Register("darken", Darken, CategoryColor, "Darkens a color by a percentage")
	r.Register("saturate", Saturate, CategoryColor, "Increases a color's saturation by a percentage")
	r.Register("desaturate", Desaturate, CategoryColor, "Decreases a color's saturation by a percentage")
	r.Register("grayscale", Grayscale, CategoryColor, "Desaturates a color completely")
	r.Register("rgba-adjust", RGBAAdjust, CategoryColor, "Legacy alias retained for rgba() 4-arg form")
}

func RegisterMathFunctions(r *Registry) {
	r.Register("abs", Abs, CategoryMath, "Returns the absolute value of a number")
	r.Register("ceil", Ceil, CategoryMath, "Rounds a number up to the nearest integer")
	r.Register("floor", Floor, CategoryMath, "Rounds a number down to the nearest integer")
	r.Register("round", Round, CategoryMath, "Rounds a number to the nearest integer")
	r.Register("min", Min, CategoryMath, "Returns the smallest of one or more numbers")
	r.Register("max", Max, CategoryMath, "Returns the largest of one or more numbers")
	r.Register("percentage", Percentage, CategoryMath, "Converts a unitless number to a percentage")
	r.Register("random", Random, CategoryMath, "Returns a random number, optionally up to a limit")
	r.Register("comparable", Comparable, CategoryMath, "Returns whether two numbers' units can be added or compared")
}

func RegisterStringFunctions(r *Registry) {
	r.Register("quote", Quote, CategoryStr, "Returns a string with double quotes added")
	r.Register("unquote", Unquote, CategoryStr, "Returns a string with quotes removed")
	r.Register("to-upper-case", ToUpperCase, CategoryStr, "Converts a string to upper case")
	r.Register("to-lower-case", ToLowerCase, CategoryStr, "Converts a string to lower case")
	r.Register("str-length", StrLength, CategoryStr, "Returns the number of characters in a string")
	r.Register("str-slice", StrSlice, CategoryStr, "Extracts a substring by 1-indexed, possibly negative, bounds")
	r.Register("str-insert", StrInsert, CategoryStr, "Inserts a string at a given index")
	r.Register("str-index", StrIndex, CategoryStr, "Returns the 1-indexed position of a substring, or null")
}

func RegisterMetaFunctions(r *Registry) {
	r.Register("type-of", TypeOf, CategoryMeta, "Returns a value's type name")
	r.Register("unit", Unit, CategoryMeta, "Returns a number's unit as a string")
	r.Register("unitless", Unitless, CategoryMeta, "Returns whether a number has no unit")
	r.Register("not", Not, CategoryMeta, "Returns the logical negation of a value's truthiness")
	r.Register("if", If, CategoryMeta, "Returns one of two values depending on a condition")
	// variable-exists, function-exists, mixin-exists, and call are handled
	// directly by the evaluator (they need live scope access the
	// positional-only BuiltinFunc signature can't carry) and are
	// deliberately not registered here.
}
