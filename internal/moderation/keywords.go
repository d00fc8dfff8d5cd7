package moderation

// Category names reported in a Verdict.
const (
	CategorySexual    = "sexual"
	CategoryViolence  = "violence"
	CategoryDrugs     = "drugs"
	CategorySelfHarm  = "self-harm"
	CategoryHate      = "hate"
	CategoryIllegal   = "illegal"
	CategoryPredatory = "predatory"
	CategoryMisc      = "misc"
	CategoryProfanity = "profanity"
)

// KeywordCategory groups harmful terms under one reporting label.
type KeywordCategory struct {
	Name  string
	Terms []string
}

// DefaultKeywords is the static harmful-term table. Terms are matched as whole
// words (or whole phrases), case-insensitively.
var DefaultKeywords = []KeywordCategory{
	{
		Name: CategorySexual,
		Terms: []string{
			"porn", "xxx", "sex", "nude", "naked", "boobs", "tits", "cock", "dick", "pussy", "ass",
			"fuck", "fucking", "fucked", "slut", "whore", "rape", "raping", "rapist", "orgy", "incest",
			"fetish", "erotic", "masturbate", "masturbation", "horny", "cum", "cumming", "sperm", "anal",
			"blowjob", "handjob", "clit", "clitoris", "dildo", "vibrator", "bdsm", "bondage", "escort",
			"prostitute", "strip", "stripper", "lust", "kinky", "hentai", "onlyfans", "camgirl",
		},
	},
	{
		Name: CategoryViolence,
		Terms: []string{
			"murder", "kill", "killing", "killer", "stab", "stabbing", "shoot", "shooting", "gun", "guns",
			"pistol", "rifle", "shotgun", "massacre", "blood", "gore", "torture", "slaughter", "bomb",
			"bombing", "explosion", "terrorist", "terrorism", "isis", "suicide bomber", "beheading",
			"execution", "grenade", "landmine", "napalm", "sniper", "gunfight",
		},
	},
	{
		Name: CategoryDrugs,
		Terms: []string{
			"drug", "drugs", "weed", "marijuana", "cannabis", "ganja", "pot", "hash", "hashish", "cocaine",
			"meth", "methamphetamine", "ecstasy", "mdma", "lsd", "acid", "heroin", "opioid", "fentanyl",
			"adderall", "xanax", "oxy", "oxycodone", "percocet", "ketamine", "molly", "shrooms",
			"psychedelics", "inject", "overdose", "stoned", "high", "dealer", "drugdeal", "cartel",
		},
	},
	{
		Name: CategorySelfHarm,
		Terms: []string{
			"suicide", "kill myself", "kms", "selfharm", "cutting", "cut myself", "slit wrists", "bleed out",
			"hang myself", "jump off", "overdose", "end my life", "die", "death", "noose", "depression",
			"i want to die", "unalive", "starve", "anorexia", "bulimia", "thinspo", "proana", "self harm",
			"burn myself", "pills", "suicidal",
		},
	},
	{
		Name: CategoryHate,
		Terms: []string{
			"hate", "racist", "racism", "nazi", "white power", "kkk", "klan", "neo-nazi", "bigot", "slur",
			"fag", "faggot", "dyke", "tranny", "retard", "retarded", "cripple", "spic", "chink", "gook",
			"nigger", "negro", "coon", "sandnigger", "islamophobic", "antisemitic", "holocaust denial",
			"slave", "lynch", "bully", "harass", "harassment", "troll", "cyberbully",
		},
	},
	{
		Name: CategoryIllegal,
		Terms: []string{
			"gamble", "casino", "bet", "betting", "poker", "lottery", "blackjack", "slots", "wager", "bookie",
			"sportsbook", "matchfix", "rigged", "money laundering", "scam", "fraud", "phishing", "hack",
			"hacking", "crack", "keygen", "pirated", "torrent", "warez", "illegal", "counterfeit", "deepweb",
			"darkweb", "silkroad",
		},
	},
	{
		Name: CategoryPredatory,
		Terms: []string{
			"pedo", "pedophile", "child porn", "cp", "underage", "minor", "loli", "shota", "groom",
			"grooming", "incest", "brother and sister", "father daughter", "mom son", "rape fantasy",
			"molest", "molestation", "abduct", "kidnap", "child abuse", "csa", "sex trafficking",
			"human trafficking", "exploit", "predator", "perv", "pervert",
		},
	},
	{
		Name: CategoryMisc,
		Terms: []string{
			"bomb threat", "school shooting", "columbine", "hitler", "gas chamber", "9/11", "terror attack",
			"anthrax", "radiation", "nuclear", "poison", "cyanide", "arsenic", "chloroform", "roofies",
			"rohypnol", "date rape drug", "knife", "blade", "shiv", "shank",
		},
	},
}
