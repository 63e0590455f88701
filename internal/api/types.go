package api

import "fmt"

type MovieDetails struct {
	ID            int64    `json:"id"`
	Title         string   `json:"title"`
	OriginalTitle string   `json:"original_title"`
	Overview      string   `json:"overview"`
	PosterPath    string   `json:"poster_path"`
	BackdropPath  string   `json:"backdrop_path"`
	ReleaseDate   string   `json:"release_date"`
	Runtime       int      `json:"runtime"`
	Popularity    *float64 `json:"popularity"`
	Adult         bool     `json:"adult"`
}

func (m *MovieDetails) validate() error {
	if m.ID == 0 || m.Title == "" {
		return fmt.Errorf("%w: movie requires id and title", ErrSchema)
	}
	return nil
}

type PersonDetails struct {
	ID                 int64    `json:"id"`
	Name               string   `json:"name"`
	ProfilePath        string   `json:"profile_path"`
	KnownForDepartment string   `json:"known_for_department"`
	Biography          string   `json:"biography"`
	Popularity         *float64 `json:"popularity"`
}

func (p *PersonDetails) validate() error {
	if p.ID == 0 || p.Name == "" {
		return fmt.Errorf("%w: person requires id and name", ErrSchema)
	}
	return nil
}

type MovieCastMember struct {
	ID                 int64    `json:"id"`
	Name               string   `json:"name"`
	OriginalName       string   `json:"original_name"`
	ProfilePath        string   `json:"profile_path"`
	KnownForDepartment string   `json:"known_for_department"`
	Character          string   `json:"character"`
	CreditID           string   `json:"credit_id"`
	Order              int      `json:"order"`
	Popularity         *float64 `json:"popularity"`
}

type MovieCrewMember struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	ProfilePath string   `json:"profile_path"`
	CreditID    string   `json:"credit_id"`
	Job         string   `json:"job"`
	Department  string   `json:"department"`
	Popularity  *float64 `json:"popularity"`
}

type MovieCreditsResponse struct {
	ID   int64             `json:"id"`
	Cast []MovieCastMember `json:"cast"`
	Crew []MovieCrewMember `json:"crew"`
}

func (r *MovieCreditsResponse) validate() error {
	if r.ID == 0 {
		return fmt.Errorf("%w: movie credits require id", ErrSchema)
	}
	for _, c := range r.Cast {
		if c.ID == 0 || c.Name == "" {
			return fmt.Errorf("%w: cast member requires id and name", ErrSchema)
		}
	}
	for _, c := range r.Crew {
		if c.ID == 0 || c.Name == "" {
			return fmt.Errorf("%w: crew member requires id and name", ErrSchema)
		}
	}
	return nil
}

// PersonCredit is one entry of combined_credits; TV credits carry name
// instead of title.
type PersonCredit struct {
	ID         int64    `json:"id"`
	MediaType  string   `json:"media_type"`
	Title      string   `json:"title"`
	Name       string   `json:"name"`
	PosterPath string   `json:"poster_path"`
	CreditID   string   `json:"credit_id"`
	Character  string   `json:"character"`
	Job        string   `json:"job"`
	Department string   `json:"department"`
	Popularity *float64 `json:"popularity"`
}

type PersonCreditsResponse struct {
	ID   int64          `json:"id"`
	Cast []PersonCredit `json:"cast"`
	Crew []PersonCredit `json:"crew"`
}

func (r *PersonCreditsResponse) validate() error {
	if r.ID == 0 {
		return fmt.Errorf("%w: person credits require id", ErrSchema)
	}
	return nil
}

type ListMeta struct {
	Page         int `json:"page"`
	TotalPages   int `json:"total_pages"`
	TotalResults int `json:"total_results"`
}

type MovieResult struct {
	ID          int64    `json:"id"`
	Title       string   `json:"title"`
	PosterPath  string   `json:"poster_path"`
	ReleaseDate string   `json:"release_date"`
	Adult       bool     `json:"adult"`
	Popularity  *float64 `json:"popularity"`
}

type MovieListResponse struct {
	ListMeta
	Results []MovieResult `json:"results"`
}

func (r *MovieListResponse) validate() error {
	for _, m := range r.Results {
		if m.ID == 0 || m.Title == "" {
			return fmt.Errorf("%w: movie result requires id and title", ErrSchema)
		}
	}
	return nil
}

type KnownFor struct {
	ID        int64  `json:"id"`
	MediaType string `json:"media_type"`
	Adult     bool   `json:"adult"`
}

type PersonResult struct {
	ID           int64      `json:"id"`
	Name         string     `json:"name"`
	OriginalName string     `json:"original_name"`
	ProfilePath  string     `json:"profile_path"`
	Adult        bool       `json:"adult"`
	Popularity   *float64   `json:"popularity"`
	KnownFor     []KnownFor `json:"known_for"`
}

type PersonListResponse struct {
	ListMeta
	Results []PersonResult `json:"results"`
}

func (r *PersonListResponse) validate() error {
	for _, p := range r.Results {
		if p.ID == 0 || p.Name == "" {
			return fmt.Errorf("%w: person result requires id and name", ErrSchema)
		}
	}
	return nil
}
