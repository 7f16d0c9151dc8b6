package grouping

// Spanish color vocabulary used for filename-driven variant detection,
// including plural/gender variations and common patterns that behave like
// colors for grouping purposes.
var colorWords = []string{
	// Basic
	"rojo", "roja", "rojos", "rojas",
	"azul", "azules",
	"verde", "verdes",
	"amarillo", "amarilla", "amarillos", "amarillas",
	"negro", "negra", "negros", "negras",
	"blanco", "blanca", "blancos", "blancas",
	"gris", "grises",
	"rosa", "rosas", "rosado", "rosada",
	"morado", "morada", "morados", "moradas",
	"naranja", "naranjas", "anaranjado", "anaranjada",
	"cafe", "café", "marron", "marrón", "brown",
	"beige", "beis", "crema",

	// Blues
	"celeste", "celestes",
	"turquesa",
	"aqua", "agua",
	"marino", "marina", "navy",
	"azulino", "azulina",
	"cobalto",
	"indigo", "índigo",

	// Pinks / reds
	"fucsia", "fucsias",
	"magenta",
	"coral",
	"salmon", "salmón",
	"vino", "vinotinto", "burdeos", "burgundy",
	"cereza",
	"carmesi", "carmesí",
	"escarlata",

	// Greens
	"oliva", "olivo", "olive",
	"menta", "mint",
	"esmeralda",
	"lima", "lime",
	"jade",
	"musgo",
	"militar",
	"bosque", "forest",

	// Metallics
	"dorado", "dorada", "dorados", "doradas", "oro", "gold",
	"plateado", "plateada", "plateados", "plateadas", "plata", "silver",
	"bronce", "bronze",
	"cobre", "copper",
	"metalico", "metálico",

	// Neutrals and others
	"hueso", "ivory", "marfil",
	"chocolate",
	"caramelo",
	"mostaza", "mustard",
	"terracota",
	"lila", "lavanda", "lavender",
	"violeta", "violet", "violetas",
	"purpura", "púrpura", "purple",
	"ocre",
	"arena", "sand",
	"nude",
	"natural",
	"multicolor", "multi",

	// Patterns treated as colors for grouping
	"animal", "leopardo", "zebra", "cebra", "tigre",
	"floral", "flores",
	"rayas", "rayado", "striped",
	"cuadros", "plaid", "checkered",
	"lunares", "polka",
	"estampado", "print",
}

// Two-word compound colors, matched before single words.
var compoundColors = []string{
	"azul marino", "azul cielo", "azul rey", "azul electrico", "azul eléctrico",
	"azul petroleo", "azul petróleo", "azul oscuro", "azul claro",
	"verde militar", "verde oliva", "verde menta", "verde esmeralda",
	"verde oscuro", "verde claro", "verde limón", "verde limon",
	"rojo vino", "rojo cereza", "rojo oscuro", "rojo claro",
	"rosa pastel", "rosa chicle", "rosa palo", "rosa viejo",
	"gris oscuro", "gris claro", "gris perla", "gris oxford",
	"marron oscuro", "marrón oscuro", "marron claro", "marrón claro",
	"blanco hueso", "blanco roto", "blanco perla",
	"negro mate", "negro brillante",
	"oro rosa", "rose gold",
}

// productTypeToCategory maps the leading word of a product name to its
// catalog category (singular type → plural category).
var productTypeToCategory = map[string]string{
	// Tops
	"camisa":   "Camisas",
	"camiseta": "Camisetas",
	"blusa":    "Blusas",
	"polo":     "Polos",
	"sueter":   "Suéteres",
	"sweater":  "Suéteres",
	"chaqueta": "Chaquetas",
	"jacket":   "Chaquetas",
	"buzo":     "Buzos",
	"hoodie":   "Buzos",
	"chompa":   "Chompas",
	"top":      "Tops",
	"crop":     "Tops",
	"chaleco":  "Chalecos",
	"blazer":   "Blazers",
	"saco":     "Sacos",

	// Bottoms
	"pantalon": "Pantalones",
	"jean":     "Jeans",
	"jeans":    "Jeans",
	"short":    "Shorts",
	"bermuda":  "Bermudas",
	"falda":    "Faldas",
	"leggins":  "Leggins",
	"legging":  "Leggins",

	// Sets and dresses
	"conjunto": "Conjuntos",
	"set":      "Conjuntos",
	"vestido":  "Vestidos",
	"enterizo": "Enterizos",
	"overol":   "Overoles",
	"mameluco": "Mamelucos",
	"pijama":   "Pijamas",

	// Accessories
	"morral":    "Morrales",
	"bolso":     "Bolsos",
	"cartera":   "Carteras",
	"mochila":   "Mochilas",
	"maleta":    "Maletas",
	"billetera": "Billeteras",
	"cinturon":  "Cinturones",
	"correa":    "Correas",
	"gorra":     "Gorras",
	"sombrero":  "Sombreros",
	"bufanda":   "Bufandas",
	"pañuelo":   "Pañuelos",
	"gafas":     "Gafas",
	"lentes":    "Lentes",
	"reloj":     "Relojes",
	"collar":    "Collares",
	"pulsera":   "Pulseras",
	"anillo":    "Anillos",
	"aretes":    "Aretes",
	"arete":     "Aretes",

	// Footwear
	"zapato":    "Zapatos",
	"tenis":     "Tenis",
	"zapatilla": "Zapatillas",
	"sandalia":  "Sandalias",
	"bota":      "Botas",
	"botin":     "Botines",
	"chancla":   "Chanclas",
	"tacones":   "Tacones",
	"tacon":     "Tacones",

	// Underwear
	"boxer":    "Boxers",
	"calzon":   "Calzones",
	"brasier":  "Brasieres",
	"bra":      "Brasieres",
	"media":    "Medias",
	"calcetín": "Calcetines",
	"calcetin": "Calcetines",

	// Others
	"body":    "Bodys",
	"bikini":  "Bikinis",
	"traje":   "Trajes",
	"corbata": "Corbatas",
	"guante":  "Guantes",
	"mascara": "Máscaras",
	"gorro":   "Gorros",
}
