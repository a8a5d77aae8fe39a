// internal/models/business_config.go
package models

// Niche selects the trade focus of the site.
type Niche string

const (
	NicheGeneral      Niche = "General"
	NichePlumbingOnly Niche = "PlumbingOnly"
	NicheHeatingOnly  Niche = "HeatingOnly"
)

// ButtonType decides which call to action a button opens.
type ButtonType string

const (
	ButtonConsultation ButtonType = "Consultation"
	ButtonQuote        ButtonType = "Quote"
	ButtonBoth         ButtonType = "Both"
)

type CtaLocation string

const (
	CtaHeader CtaLocation = "Header"
	CtaNavbar CtaLocation = "Navbar"
	CtaBoth   CtaLocation = "Both"
	CtaNone   CtaLocation = "None"
)

// NotificationType is how the owner wants to hear about new leads.
type NotificationType string

const (
	NotifyEmail NotificationType = "Email"
	NotifySMS   NotificationType = "SMS"
	NotifyBoth  NotificationType = "Both"
)

type Contact struct {
	Phone string `json:"phone"`
	Email string `json:"email"`
}

type NavLinks struct {
	Services bool `json:"services"`
	About    bool `json:"about"`
	Contact  bool `json:"contact"`
}

type AboutSection struct {
	Show        bool   `json:"show"`
	Title       string `json:"title"`
	Text        string `json:"text"`
	ImageURL    string `json:"imageUrl,omitempty"`
	ImagePrompt string `json:"imagePrompt,omitempty"`
}

type ServiceItem struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	ImageURL    string `json:"imageUrl,omitempty"`
	ImagePrompt string `json:"imagePrompt,omitempty"`
}

type ReviewItem struct {
	ID       string `json:"id"`
	Author   string `json:"author"`
	Rating   int    `json:"rating"`
	Text     string `json:"text"`
	Date     string `json:"date"`
	ImageURL string `json:"imageUrl,omitempty"`
}

// AvailableHours is the daily booking window as zero-padded HH:mm strings.
type AvailableHours struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// BusinessConfig drives the content, feature toggles and lead routing of the site.
type BusinessConfig struct {
	CompanyName    string  `json:"companyName"`
	Slogan         string  `json:"slogan"`
	Address        string  `json:"address"`
	Contact        Contact `json:"contact"`
	SMSSenderName  string  `json:"smsSenderName"`
	TelegramChatID string  `json:"telegramChatId,omitempty"`

	Niche        Niche  `json:"niche"`
	PrimaryColor string `json:"primaryColor"`

	HeroButtonType         ButtonType `json:"heroButtonType"`
	NavbarButtonType       ButtonType `json:"navbarButtonType"`
	NavbarButtonText       string     `json:"navbarButtonText,omitempty"`
	ConsultationButtonText string     `json:"consultationButtonText,omitempty"`
	QuoteButtonText        string     `json:"quoteButtonText,omitempty"`

	ConsultationButtonLocation CtaLocation `json:"consultationButtonLocation"`
	QuoteButtonLocation        CtaLocation `json:"quoteButtonLocation"`
	ShowNavbarCta              bool        `json:"showNavbarCta"`
	ShowHeaderCta              bool        `json:"showHeaderCta"`
	NavLinks                   NavLinks    `json:"navLinks"`

	HeroImage       string       `json:"heroImage"`
	HeroImagePrompt string       `json:"heroImagePrompt,omitempty"`
	AboutSection    AboutSection `json:"aboutSection"`

	ServicesList []ServiceItem `json:"servicesList"`
	Reviews      []ReviewItem  `json:"reviews"`

	EnableChatWidget     bool `json:"enableChatWidget"`
	EnableBookingSystem  bool `json:"enableBookingSystem"`
	EnableReputationPage bool `json:"enableReputationPage"`

	OwnerNotificationType NotificationType `json:"ownerNotificationType"`
	GoogleReviewLink      string           `json:"googleReviewLink"`
	GithubRepo            string           `json:"githubRepo,omitempty"`

	SlotDuration   int            `json:"slotDuration"`
	AvailableHours AvailableHours `json:"availableHours"`
	BlockedDays    []int          `json:"blockedDays"`
}

// Clone returns a deep copy so callers cannot alias the store's slices.
func (c BusinessConfig) Clone() BusinessConfig {
	out := c
	if c.ServicesList != nil {
		out.ServicesList = append([]ServiceItem(nil), c.ServicesList...)
	}
	if c.Reviews != nil {
		out.Reviews = append([]ReviewItem(nil), c.Reviews...)
	}
	if c.BlockedDays != nil {
		out.BlockedDays = append([]int(nil), c.BlockedDays...)
	}
	return out
}

// IsBlockedDay reports whether weekday (0=Sunday) is closed for bookings.
func (c BusinessConfig) IsBlockedDay(weekday int) bool {
	for _, d := range c.BlockedDays {
		if d == weekday {
			return true
		}
	}
	return false
}
