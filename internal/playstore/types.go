package playstore

// App is a Google Play listing. Collection operations (list, search,
// developer, similar) fill only the summary fields unless fullDetail is set;
// detail-only fields are omitted when unknown.
type App struct {
	AppID       string  `json:"appId"`
	Title       string  `json:"title"`
	URL         string  `json:"url"`
	Icon        string  `json:"icon"`
	Developer   string  `json:"developer"`
	DeveloperID string  `json:"developerId,omitempty"`
	Summary     string  `json:"summary"`
	Currency    string  `json:"currency,omitempty"`
	Price       float64 `json:"price"`
	Free        bool    `json:"free"`
	Score       float64 `json:"score"`
	ScoreText   string  `json:"scoreText"`

	Description      string           `json:"description,omitempty"`
	DescriptionHTML  string           `json:"descriptionHTML,omitempty"`
	Installs         string           `json:"installs,omitempty"`
	MinInstalls      int64            `json:"minInstalls,omitempty"`
	MaxInstalls      int64            `json:"maxInstalls,omitempty"`
	Ratings          int64            `json:"ratings,omitempty"`
	Reviews          int64            `json:"reviews,omitempty"`
	Histogram        map[string]int64 `json:"histogram,omitempty"`
	PriceText        string           `json:"priceText,omitempty"`
	Available        *bool            `json:"available,omitempty"`
	OffersIAP        *bool            `json:"offersIAP,omitempty"`
	IAPRange         string           `json:"IAPRange,omitempty"`
	AndroidVersion   string           `json:"androidVersion,omitempty"`
	DeveloperEmail   string           `json:"developerEmail,omitempty"`
	DeveloperWebsite string           `json:"developerWebsite,omitempty"`
	DeveloperAddress string           `json:"developerAddress,omitempty"`
	PrivacyPolicy    string           `json:"privacyPolicy,omitempty"`
	Genre            string           `json:"genre,omitempty"`
	GenreID          string           `json:"genreId,omitempty"`
	HeaderImage      string           `json:"headerImage,omitempty"`
	Screenshots      []string         `json:"screenshots,omitempty"`
	Video            string           `json:"video,omitempty"`
	ContentRating    string           `json:"contentRating,omitempty"`
	AdSupported      *bool            `json:"adSupported,omitempty"`
	Released         string           `json:"released,omitempty"`
	Updated          int64            `json:"updated,omitempty"`
	Version          string           `json:"version,omitempty"`
	RecentChanges    string           `json:"recentChanges,omitempty"`
}

// Review is one user review.
type Review struct {
	ID        string      `json:"id"`
	UserName  string      `json:"userName"`
	UserImage string      `json:"userImage"`
	Date      string      `json:"date"`
	Score     int64       `json:"score"`
	ScoreText string      `json:"scoreText"`
	URL       string      `json:"url"`
	Title     *string     `json:"title"`
	Text      string      `json:"text"`
	ReplyDate *string     `json:"replyDate"`
	ReplyText *string     `json:"replyText"`
	Version   *string     `json:"version"`
	ThumbsUp  int64       `json:"thumbsUp"`
	Criterias []Criterion `json:"criterias"`
}

// Criterion is a per-aspect rating attached to some reviews.
type Criterion struct {
	Criteria string `json:"criteria"`
	Rating   *int64 `json:"rating"`
}

// Reviews is one or more pages of reviews plus the token for the next page.
type Reviews struct {
	Data                []Review `json:"data"`
	NextPaginationToken *string  `json:"nextPaginationToken"`
}

// Permission is one permission an app requests.
type Permission struct {
	Permission string `json:"permission"`
	Type       string `json:"type"`
}

// DataSafety is the data-safety section of a listing.
type DataSafety struct {
	SharedData        []DataEntry        `json:"sharedData"`
	CollectedData     []DataEntry        `json:"collectedData"`
	SecurityPractices []SecurityPractice `json:"securityPractices"`
	PrivacyPolicyURL  string             `json:"privacyPolicyUrl,omitempty"`
}

// DataEntry is one kind of data the app shares or collects.
type DataEntry struct {
	Data     string `json:"data"`
	Optional bool   `json:"optional"`
	Purpose  string `json:"purpose"`
	Type     string `json:"type"`
}

// SecurityPractice is one declared security practice.
type SecurityPractice struct {
	Practice    string `json:"practice"`
	Description string `json:"description"`
}
