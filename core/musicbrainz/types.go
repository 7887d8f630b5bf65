package musicbrainz

// 以下为 MusicBrainz Web Service v2 JSON 结构，只保留用到的字段

type artistRef struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	SortName string `json:"sort-name"`
}

type artistCredit struct {
	Name       string    `json:"name"`
	JoinPhrase string    `json:"joinphrase"`
	Artist     artistRef `json:"artist"`
}

type releaseStub struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Status string `json:"status"`
	Date   string `json:"date"`
}

type releaseGroup struct {
	ID               string         `json:"id"`
	Score            *float64       `json:"score"`
	Title            string         `json:"title"`
	PrimaryType      string         `json:"primary-type"`
	SecondaryTypes   []string       `json:"secondary-types"`
	FirstReleaseDate string         `json:"first-release-date"`
	ArtistCredit     []artistCredit `json:"artist-credit"`
	Releases         []releaseStub  `json:"releases"`
}

type releaseGroupList struct {
	ReleaseGroups []releaseGroup `json:"release-groups"`
	Count         int            `json:"release-group-count"`
	Offset        int            `json:"release-group-offset"`
}

type recording struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Length *int   `json:"length"`
}

type mediumTrack struct {
	ID        string    `json:"id"`
	Number    string    `json:"number"`
	Position  int       `json:"position"`
	Title     string    `json:"title"`
	Length    *int      `json:"length"`
	Recording recording `json:"recording"`
}

type medium struct {
	Position   int           `json:"position"`
	TrackCount int           `json:"track-count"`
	Format     string        `json:"format"`
	Tracks     []mediumTrack `json:"tracks"`
}

type urlRelation struct {
	Type       string `json:"type"`
	TargetType string `json:"target-type"`
	URL        struct {
		ID       string `json:"id"`
		Resource string `json:"resource"`
	} `json:"url"`
}

type release struct {
	ID        string        `json:"id"`
	Title     string        `json:"title"`
	Status    string        `json:"status"`
	Date      string        `json:"date"`
	Country   string        `json:"country"`
	Media     []medium      `json:"media"`
	Relations []urlRelation `json:"relations"`
}
