package identity

// The dictionaries below are the published source of truth for display
// names. Changing an entry or the ordering changes every derived name,
// so treat both lists as append-only.

var colors = []string{
	"amaranth", "amber", "amethyst", "apricot", "aqua", "aquamarine",
	"azure", "beige", "black", "blue", "blush", "bronze", "brown",
	"chocolate", "coffee", "copper", "coral", "crimson", "cyan",
	"emerald", "fuchsia", "gold", "gray", "green", "harlequin",
	"indigo", "ivory", "jade", "lavender", "lime", "magenta", "maroon",
	"moccasin", "olive", "orange", "peach", "pink", "plum", "purple",
	"red", "rose", "salmon", "sapphire", "scarlet", "silver", "tan",
	"teal", "tomato", "turquoise", "violet", "white", "yellow",
}

var animals = []string{
	"aardvark", "albatross", "alligator", "alpaca", "ant", "anteater",
	"antelope", "armadillo", "baboon", "badger", "barracuda", "bat",
	"bear", "beaver", "bee", "bison", "boar", "buffalo", "butterfly",
	"camel", "capybara", "caribou", "cassowary", "cat", "caterpillar",
	"chamois", "cheetah", "chicken", "chimpanzee", "chinchilla",
	"chough", "cobra", "cockroach", "cod", "cormorant", "coyote",
	"crab", "crane", "crocodile", "crow", "curlew", "deer", "dinosaur",
	"dog", "dogfish", "dolphin", "donkey", "dotterel", "dove",
	"dragonfly", "duck", "dugong", "dunlin", "eagle", "echidna", "eel",
	"eland", "elephant", "elk", "emu", "falcon", "ferret", "finch",
	"fish", "flamingo", "fly", "fox", "frog", "gaur", "gazelle",
	"gerbil", "giraffe", "gnat", "gnu", "goat", "goldfinch", "goose",
	"gorilla", "goshawk", "grasshopper", "grouse", "guanaco", "gull",
	"hamster", "hare", "hawk", "hedgehog", "heron", "herring",
	"hippopotamus", "hornet", "horse", "hummingbird", "hyena", "ibex",
	"ibis", "jackal", "jaguar", "jay", "jellyfish", "kangaroo",
	"kingfisher", "koala", "kookaburra", "kouprey", "kudu", "lapwing",
	"lark", "lemur", "leopard", "lion", "llama", "lobster", "locust",
	"loris", "louse", "lyrebird", "magpie", "mallard", "manatee",
	"mandrill", "mantis", "marten", "meerkat", "mink", "mole",
	"mongoose", "monkey", "moose", "mosquito", "mouse", "mule",
	"narwhal", "newt", "nightingale", "octopus", "okapi", "opossum",
	"oryx", "ostrich", "otter", "owl", "oyster", "panther", "parrot",
	"partridge", "peafowl", "pelican", "penguin", "pheasant", "pig",
	"pigeon", "pony", "porcupine", "porpoise", "quail", "quelea",
	"quetzal", "rabbit", "raccoon", "rail", "ram", "rat", "raven",
	"reindeer", "rhinoceros", "rook", "salamander", "salmon",
	"sandpiper", "sardine", "scorpion", "seahorse", "seal", "shark",
	"sheep", "shrew", "skunk", "snail", "snake", "sparrow", "spider",
	"spoonbill", "squid", "squirrel", "starling", "stingray",
	"stinkbug", "stork", "swallow", "swan", "tapir", "tarsier",
	"termite", "tiger", "toad", "trout", "turkey", "turtle", "viper",
	"vulture", "wallaby", "walrus", "wasp", "weasel", "whale",
	"wildcat", "wolf", "wolverine", "wombat", "woodcock", "woodpecker",
	"worm", "wren", "yak", "zebra",
}
