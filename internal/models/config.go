package models

import "slices"

// Chat display modes
const (
	ChatModeEmbedded = "embedded"
	ChatModeWidget   = "widget"
)

// Default admin credentials used when the tenant config leaves them empty.
const (
	DefaultAdminUsername = "admin"
	DefaultAdminPassword = "admin123"
)

// Link is a footer navigation entry
type Link struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// SocialLink is a footer social network entry
type SocialLink struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URL  string `json:"url"`
	Icon string `json:"icon"`
}

// QuickQuestion is a canned chat prompt shown next to the chat input
type QuickQuestion struct {
	ID   string `json:"id" validate:"required"`
	Text string `json:"text" validate:"required"`
}

// AppConfig holds every tenant-customizable setting.
// It is stored remotely as a single JSON document.
type AppConfig struct {
	WebhookURL     string `json:"webhookUrl"`
	NocoDBAPIKey   string `json:"nocodbApiKey"`
	NocoDBURL      string `json:"nocodbUrl"`
	NocoDBDatabase string `json:"nocodbDatabase"`
	NocoDBTable    string `json:"nocodbTable"`

	Logo               string `json:"logo"`
	Title              string `json:"title"`
	HeaderTitle        string `json:"headerTitle"`
	PrimaryColor       string `json:"primaryColor"`
	SecondaryColor     string `json:"secondaryColor"`
	HeaderBgColor      string `json:"headerBgColor"`
	FooterBgColor      string `json:"footerBgColor"`
	FooterTextColor    string `json:"footerTextColor"`
	MenuItemColor      string `json:"menuItemColor"`
	MenuItemHoverColor string `json:"menuItemHoverColor"`
	InitialChatMessage string `json:"initialChatMessage"`
	FooterCompanyName  string `json:"footerCompanyName"`
	FooterDescription  string `json:"footerDescription"`
	FooterLinks        []Link `json:"footerLinks,omitempty"`

	AdminUsername string `json:"adminUsername"`
	AdminPassword string `json:"adminPassword"`

	QuickQuestions []QuickQuestion `json:"quickQuestions"`
	VisibleDetails []string        `json:"visibleDetails"`

	ChatDisplayMode     string       `json:"chatDisplayMode"`
	ChatBackgroundImage string       `json:"chatBackgroundImage,omitempty"`
	ChatBgColor         string       `json:"chatBgColor,omitempty"`
	ChatSectionBgImage  string       `json:"chatSectionBgImage,omitempty"`
	ChatSectionBgColor  string       `json:"chatSectionBgColor,omitempty"`
	SocialLinks         []SocialLink `json:"socialLinks"`
	SocialIconSize      int          `json:"socialIconSize,omitempty"`
	MenuItemFontSize    int          `json:"menuItemFontSize,omitempty"`
	ShowMobileMenu      bool         `json:"showMobileMenu"`

	Categories []Category `json:"categories"`
}

// DefaultAppConfig returns the configuration used before (or instead of) the remote document.
func DefaultAppConfig() AppConfig {
	return AppConfig{
		Title:              "Inmobiliaria Moderna",
		HeaderTitle:        "Encuentra tu hogar ideal",
		PrimaryColor:       "#2563EB",
		SecondaryColor:     "#10B981",
		HeaderBgColor:      "#ffffff",
		FooterBgColor:      "#1f2937",
		FooterTextColor:    "#ffffff",
		MenuItemColor:      "#374151",
		MenuItemHoverColor: "#2563EB",
		InitialChatMessage: "¡Hola! Soy tu asistente virtual inmobiliario. ¿Qué tipo de propiedad estás buscando hoy? Puedo ayudarte a encontrar casas, apartamentos, locales comerciales y más.",
		FooterCompanyName:  "Inmobiliaria Moderna",
		FooterDescription:  "Tu hogar ideal te está esperando. Más de 10 años conectando familias con sus sueños.",
		FooterLinks: []Link{
			{Name: "Inicio", URL: "#inicio"},
			{Name: "Propiedades", URL: "#propiedades"},
			{Name: "Contacto", URL: "#contacto"},
			{Name: "Nosotros", URL: "#nosotros"},
		},
		QuickQuestions: []QuickQuestion{
			{ID: "q1", Text: "¿Qué casas hay en venta?"},
			{ID: "q2", Text: "Busco un apartamento en arriendo"},
			{ID: "q3", Text: "Muéstrame propiedades de lujo"},
			{ID: "q4", Text: "¿Tienen locales comerciales?"},
		},
		VisibleDetails:  []string{"Área", "Parqueadero", "Habitaciones", "Baños"},
		AdminUsername:   DefaultAdminUsername,
		AdminPassword:   DefaultAdminPassword,
		ChatDisplayMode: ChatModeEmbedded,
		SocialLinks: []SocialLink{
			{ID: "facebook", Name: "Facebook", URL: "https://facebook.com", Icon: "facebook"},
			{ID: "instagram", Name: "Instagram", URL: "https://instagram.com", Icon: "instagram"},
		},
		Categories: []Category{},
	}
}

// Clone returns a deep copy of the config
func (c AppConfig) Clone() AppConfig {
	out := c
	out.FooterLinks = slices.Clone(c.FooterLinks)
	out.QuickQuestions = slices.Clone(c.QuickQuestions)
	out.VisibleDetails = slices.Clone(c.VisibleDetails)
	out.SocialLinks = slices.Clone(c.SocialLinks)
	if c.Categories != nil {
		out.Categories = make([]Category, len(c.Categories))
		for i, cat := range c.Categories {
			out.Categories[i] = cat.Clone()
		}
	}
	return out
}

// WithoutListings returns a copy whose categories carry metadata only.
func (c AppConfig) WithoutListings() AppConfig {
	out := c.Clone()
	for i := range out.Categories {
		out.Categories[i].Listing = Listing{}
	}
	return out
}

// IsEmbeddedChat reports whether the chat is rendered inline instead of as a widget
func (c AppConfig) IsEmbeddedChat() bool {
	return c.ChatDisplayMode == ChatModeEmbedded
}

// FindCategory returns the index of the category with the given id, or -1
func (c AppConfig) FindCategory(id string) int {
	return slices.IndexFunc(c.Categories, func(cat Category) bool { return cat.ID == id })
}
