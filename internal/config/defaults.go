package config

// Built-in rule data. Every list can be overridden from the config file.
var (
	DefaultBlockedWords = []string{
		"viagra",
		"cialis",
		"casino",
		"lottery",
		"click here",
		"buy now",
		"free money",
		"make money fast",
		"work from home",
		"weight loss",
		"payday loan",
		"online pharmacy",
		"replica watches",
		"crypto investment",
		"forex signals",
	}

	DefaultShortenerDomains = []string{
		"bit.ly",
		"tinyurl.com",
		"goo.gl",
		"t.co",
		"ow.ly",
		"is.gd",
		"buff.ly",
		"cutt.ly",
	}

	DefaultSuspiciousTLDs = []string{
		"tk",
		"ml",
		"ga",
		"cf",
		"gq",
		"xyz",
		"top",
	}

	DefaultDisposableEmailDomains = []string{
		"tempmail",
		"throwaway",
		"guerrillamail",
		"mailinator",
		"10minutemail",
		"yopmail",
		"trashmail",
		"fakeinbox",
	}
)
