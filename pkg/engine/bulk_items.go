// pkg/engine/bulk_items.go
package engine

// bulkReferenceItems 已知大宗交易物品参考清单，命中只加分不作门槛
var bulkReferenceItems = []string{
	// 骨头类
	"Dragon bones", "Wyvern bones", "Superior dragon bones", "Baby dragon bones",
	"Big bones", "Bones", "Dagannoth bones", "Drake bones", "Hydra bones",
	"Lava dragon bones", "Ourg bones", "Wolf bones", "Zogre bones",
	// 原木类
	"Logs", "Oak logs", "Willow logs", "Maple logs", "Yew logs", "Magic logs",
	"Mahogany logs", "Teak logs", "Redwood logs", "Arctic pine logs",
	// 食物类
	"Anglerfish", "Cooked karambwan", "Jug of wine", "Lobster", "Manta ray",
	"Monkfish", "Pineapple pizza", "Raw anglerfish", "Raw karambwan", "Raw lobster",
	"Raw monkfish", "Raw shark", "Raw swordfish", "Saradomin brew(4)", "Shark", "Tuna potato",
	// 草药类
	"Avantoe", "Cadantine", "Dwarf weed", "Grimy avantoe", "Grimy cadantine",
	"Grimy dwarf weed", "Grimy guam leaf", "Grimy harralander", "Grimy irit leaf",
	"Grimy kwuarm", "Grimy lantadyme", "Grimy ranarr weed", "Grimy snapdragon",
	"Grimy toadflax", "Grimy torstol", "Guam leaf", "Harralander", "Irit leaf",
	"Kwuarm", "Lantadyme", "Ranarr weed", "Snapdragon", "Toadflax", "Torstol",
	// 符文类
	"Air rune", "Astral rune", "Blood rune", "Body rune", "Chaos rune", "Cosmic rune",
	"Death rune", "Earth rune", "Fire rune", "Law rune", "Mind rune", "Nature rune",
	"Soul rune", "Water rune",
	// 矿石与金属类
	"Adamantite bar", "Adamantite ore", "Coal", "Copper ore", "Gold bar", "Gold ore",
	"Iron bar", "Iron ore", "Mithril bar", "Mithril ore", "Runite bar", "Runite ore",
	"Silver bar", "Silver ore", "Steel bar", "Tin ore",
	// 其他高频物品
	"Air orb", "Black dragonhide", "Blue dragonhide", "Bow string", "Cannonball",
	"Chinchompa", "Flax", "Green dragonhide", "Pure essence", "Red chinchompa",
	"Rune essence", "White berries", "Wine of zamorak",
	// 常见装备
	"Abyssal whip", "Air battlestaff", "Amulet of glory", "Dragon dagger",
	"Dragon scimitar", "Rune platebody", "Rune platelegs", "Rune scimitar",
}
