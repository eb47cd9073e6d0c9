package api

// Transports mirror the REST API's JSON payloads. The portal assumes these
// shapes, it does not validate them.

type ChildTransport struct {
	Id        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	BirthDate string `json:"birthDate"` // YYYY-MM-DD
	PhotoUrl  string `json:"photoUrl,omitempty"`
	GroupId   string `json:"groupId,omitempty"`
	Notes     string `json:"notes,omitempty"`
	IsActive  bool   `json:"isActive"`
}

type GroupTransport struct {
	Id   string `json:"id"`
	Name string `json:"name"`
}

type UserTransport struct {
	Id        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Role      string `json:"role"`
}

type ChildParentTransport struct {
	UserId       string `json:"userId"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	Email        string `json:"email"`
	Relationship string `json:"relationship"` // parent, guardian, caretaker, other
}

type AssignParentTransport struct {
	UserId       string `json:"userId"`
	Relationship string `json:"relationship"`
}

// Weather values accepted by the API for the temperature field.
const (
	WeatherSunny  = "ensoleille"
	WeatherCloudy = "nuageux"
	WeatherRain   = "pluie"
	WeatherSnow   = "neige"
	WeatherStormy = "orageux"
)

// Appetite values.
const (
	AppetiteUsual   = "comme_habitude"
	AppetiteLittle  = "peu"
	AppetiteLots    = "beaucoup"
	AppetiteRefused = "refuse"
)

// Mood values.
const (
	MoodGreat     = "tres_bien"
	MoodGood      = "bien"
	MoodDifficult = "difficile"
	MoodTears     = "pleurs"
)

type JournalEntryTransport struct {
	ChildId           string `json:"childId"`
	Date              string `json:"date"` // YYYY-MM-DD
	Temperature       string `json:"temperature,omitempty"`
	Menu              string `json:"menu,omitempty"`
	Appetit           string `json:"appetit,omitempty"`
	Humeur            string `json:"humeur,omitempty"`
	SommeilMinutes    *int   `json:"sommeilMinutes,omitempty"`
	Absent            bool   `json:"absent"`
	Sante             string `json:"sante,omitempty"`
	Medicaments       string `json:"medicaments,omitempty"`
	MessageEducatrice string `json:"messageEducatrice,omitempty"`
	Observations      string `json:"observations,omitempty"`
}

type DocumentTransport struct {
	Id               string `json:"id"`
	Title            string `json:"title"`
	Category         string `json:"category"` // formulaire, menu, politique, bulletin, autre
	OriginalFilename string `json:"originalFilename"`
	StoragePath      string `json:"storagePath"`
	ContentType      string `json:"contentType"`
	SizeBytes        int64  `json:"sizeBytes"`
	GroupId          string `json:"groupId,omitempty"`
	ChildId          string `json:"childId,omitempty"`
	CreatedAt        string `json:"createdAt"`
}

type DocumentFilter struct {
	Category string
	GroupId  string
	ChildId  string
}

type TenantTransport struct {
	Id      string `json:"id"`
	Slug    string `json:"slug"`
	Name    string `json:"name"`
	Address string `json:"address,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Email   string `json:"email,omitempty"`
	LogoUrl string `json:"logoUrl,omitempty"`
	Plan    string `json:"plan"` // free, standard, premium
}

type ConsentTransport struct {
	PrivacyAccepted bool   `json:"privacyAccepted"`
	PhotosAccepted  bool   `json:"photosAccepted"`
	AcceptedAt      string `json:"acceptedAt,omitempty"`
	PolicyVersion   string `json:"policyVersion,omitempty"`
}

type SettingsTransport struct {
	JournalAutoSendTime string `json:"journalAutoSendTime"` // HH:MM
}

type LoginResponse struct {
	Token     string `json:"token"`
	UserId    string `json:"userId"`
	Role      string `json:"role"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Tenant    string `json:"tenant"`
}
