// internal/models/defaults.go
package models

// NicheDefaults holds the hero copy shown for a niche.
type NicheDefaults struct {
	HeroImage       string `json:"heroImage"`
	HeroTitle       string `json:"heroTitle"`
	HeroDescription string `json:"heroDescription"`
}

// DefaultsForNiche returns hero defaults; unknown niches fall back to General.
func DefaultsForNiche(n Niche) NicheDefaults {
	switch n {
	case NichePlumbingOnly:
		return NicheDefaults{
			HeroImage:       "/images/service-3.png",
			HeroTitle:       "Ihr Profi für Sanitärinstallationen",
			HeroDescription: "Wir kümmern uns um Ihre Rohre, Bäder und Wasseranschlüsse. Schnell, sauber und zuverlässig.",
		}
	case NicheHeatingOnly:
		return NicheDefaults{
			HeroImage:       "/images/service-2.png",
			HeroTitle:       "Effiziente Heiztechnik für Ihr Zuhause",
			HeroDescription: "Von der Wartung bis zur Neuinstallation wir sorgen für Wärme und Behaglichkeit.",
		}
	default:
		return NicheDefaults{
			HeroImage:       "/images/hero-default.png",
			HeroTitle:       "Meisterbetrieb für Sanitär & Heizung",
			HeroDescription: "Ihr zuverlässiger Partner für Bad, Heizung und Haustechnik aus einer Hand.",
		}
	}
}

// DefaultBusinessConfig returns the seeded configuration a fresh store starts from.
func DefaultBusinessConfig() BusinessConfig {
	return BusinessConfig{
		CompanyName: "Rauch Sanitär-Heizungsbau",
		Slogan:      "Ihr Experte für Wärme und Wasser seit 1990",
		Address:     "Hauptstraße 42, 10115 Berlin",
		Contact: Contact{
			Phone: "+4917621280315",
			Email: "dennis@simontowsky.com",
		},
		SMSSenderName:  "RauchSHK",
		TelegramChatID: "-5010244380",

		Niche:        NicheGeneral,
		PrimaryColor: "#0ea5e9",

		HeroButtonType:         ButtonConsultation,
		NavbarButtonType:       ButtonConsultation,
		ConsultationButtonText: "Kostenlosen Beratungstermin buchen",
		QuoteButtonText:        "Unverbindliches Angebot anfordern",

		ShowNavbarCta:              true,
		ShowHeaderCta:              true,
		ConsultationButtonLocation: CtaBoth,
		QuoteButtonLocation:        CtaBoth,
		NavLinks:                   NavLinks{Services: true, About: true, Contact: true},

		HeroImage:       "/images/hero-default.png",
		HeroImagePrompt: "High quality hero image for General company, Rauch Sanitär-Heizungsbau. Professional, clean, modern architecture or plumbing.",
		AboutSection: AboutSection{
			Show:        true,
			Title:       "Über uns",
			Text:        "Wir sind ein traditionsreicher Handwerksbetrieb, der sich auf moderne Sanitär- und Heizungslösungen spezialisiert hat. Unser Team steht für Qualität, Zuverlässigkeit und saubere Arbeit.",
			ImageURL:    "/images/about-default.png",
			ImagePrompt: "Team of professional plumbers or hvac technicians, friendly, german style, Rauch Sanitär-Heizungsbau",
		},

		ServicesList: []ServiceItem{
			{ID: "1", Name: "Rohrbruch & Notdienst", Description: "Schnelle Hilfe bei Wasserschäden rund um die Uhr.", ImageURL: "/images/service-1.png", ImagePrompt: "Professional photo for HVAC service: Rohrbruch & Notdienst. High quality, modern, clean."},
			{ID: "2", Name: "Heizungswartung", Description: "Regelmäßige Wartung für effiziente Wärme.", ImageURL: "/images/service-2.png", ImagePrompt: "Professional photo for HVAC service: Heizungswartung. High quality, modern, clean."},
			{ID: "3", Name: "Badsanierung", Description: "Ihr Traumbad aus einer Hand geplant und realisiert.", ImageURL: "/images/service-3.png", ImagePrompt: "Professional photo for HVAC service: Badsanierung. High quality, modern, clean."},
		},

		Reviews: []ReviewItem{
			{ID: "1", Author: "Michael Schmidt", Rating: 5, Text: "Super Service, sehr pünktlich und sauber gearbeitet. Gerne wieder!", Date: "vor 2 Wochen", ImageURL: "https://randomuser.me/api/portraits/men/32.jpg"},
			{ID: "2", Author: "Sabine Weber", Rating: 5, Text: "Die Badsanierung lief reibungslos. Tolles Team!", Date: "vor 1 Monat", ImageURL: "https://randomuser.me/api/portraits/women/44.jpg"},
			{ID: "3", Author: "Thomas Müller", Rating: 4, Text: "Schnelle Terminvergabe bei der Heizungsstörung.", Date: "vor 3 Monaten"},
		},

		EnableChatWidget:     true,
		EnableBookingSystem:  true,
		EnableReputationPage: true,

		OwnerNotificationType: NotifyBoth,
		GoogleReviewLink:      "https://g.page/r/placeholder/review",
		GithubRepo:            "https://github.com/gruenkeks/seitenbeispiel",

		SlotDuration:   45,
		AvailableHours: AvailableHours{Start: "08:00", End: "18:00"},
		BlockedDays:    []int{0, 6},
	}
}
