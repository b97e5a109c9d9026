package catalog

// findResponse is the response from the TMDB /find/{external_id} endpoint.
type findResponse struct {
	TVResults []tvResult `json:"tv_results"`
}

// tvResult is a TV series entry in find results.
type tvResult struct {
	ID           int     `json:"id"`
	Name         string  `json:"name"`
	Overview     string  `json:"overview"`
	FirstAirDate string  `json:"first_air_date"`
	PosterPath   *string `json:"poster_path"`
	VoteAverage  float64 `json:"vote_average"`
	VoteCount    int     `json:"vote_count"`
}

// tvDetails is the detailed TV series info from /tv/{id}.
type tvDetails struct {
	ID              int     `json:"id"`
	Name            string  `json:"name"`
	Overview        string  `json:"overview"`
	FirstAirDate    string  `json:"first_air_date"`
	PosterPath      *string `json:"poster_path"`
	VoteAverage     float64 `json:"vote_average"`
	VoteCount       int     `json:"vote_count"`
	NumberOfSeasons int     `json:"number_of_seasons"`
}

// seasonDetails is the season info from /tv/{id}/season/{number}.
type seasonDetails struct {
	Name         string  `json:"name"`
	Overview     string  `json:"overview"`
	AirDate      string  `json:"air_date"`
	PosterPath   *string `json:"poster_path"`
	SeasonNumber int     `json:"season_number"`
	VoteAverage  float64 `json:"vote_average"`
}

// episodeDetails is the episode info from /tv/{id}/season/{s}/episode/{e}
// with credits appended.
type episodeDetails struct {
	Name           string       `json:"name"`
	Overview       string       `json:"overview"`
	AirDate        string       `json:"air_date"`
	EpisodeNumber  int          `json:"episode_number"`
	SeasonNumber   int          `json:"season_number"`
	Runtime        int          `json:"runtime"`
	ProductionCode string       `json:"production_code"`
	StillPath      *string      `json:"still_path"`
	VoteAverage    float64      `json:"vote_average"`
	VoteCount      int          `json:"vote_count"`
	Credits        *creditsData `json:"credits,omitempty"`
}

// creditsData holds crew and guest stars embedded in an episode response.
type creditsData struct {
	Crew       []crewMember `json:"crew"`
	GuestStars []castMember `json:"guest_stars"`
}

// crewMember is a crew entry from TMDB credits.
type crewMember struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Job         string  `json:"job"`
	ProfilePath *string `json:"profile_path"`
}

// castMember is a cast/guest-star entry from TMDB credits.
type castMember struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Character   string  `json:"character"`
	ProfilePath *string `json:"profile_path"`
}

// imagesResponse is the response from /tv/{id}/images.
type imagesResponse struct {
	Logos []imageResult `json:"logos"`
}

// imageResult is a single image entry.
type imageResult struct {
	FilePath    string  `json:"file_path"`
	VoteAverage float64 `json:"vote_average"`
	Iso6391     string  `json:"iso_639_1"`
}

// videosResponse is the response from /tv/{id}/videos.
type videosResponse struct {
	Results []video `json:"results"`
}

// video is a video entry (trailer, teaser, ...).
type video struct {
	Key      string `json:"key"`
	Site     string `json:"site"`
	Type     string `json:"type"`
	Official bool   `json:"official"`
}

// errorResponse is an error from the TMDB API.
type errorResponse struct {
	StatusCode    int    `json:"status_code"`
	StatusMessage string `json:"status_message"`
	Success       bool   `json:"success"`
}

// Series is the normalized show-level metadata.
type Series struct {
	ID           int     `json:"id"`
	Title        string  `json:"title"`
	Overview     string  `json:"overview"`
	FirstAirDate string  `json:"firstAirDate,omitempty"`
	PosterURL    string  `json:"posterUrl,omitempty"`
	VoteAverage  float64 `json:"voteAverage"`
	VoteCount    int     `json:"voteCount"`
	TotalSeasons int     `json:"totalSeasons"`
}

// Season is the normalized season-level metadata.
type Season struct {
	SeasonNumber int     `json:"seasonNumber"`
	Name         string  `json:"name"`
	Overview     string  `json:"overview"`
	AirDate      string  `json:"airDate,omitempty"`
	PosterURL    string  `json:"posterUrl,omitempty"`
	VoteAverage  float64 `json:"voteAverage"`
}

// Episode is the normalized episode-level metadata with its top credits.
type Episode struct {
	SeasonNumber   int      `json:"seasonNumber"`
	EpisodeNumber  int      `json:"episodeNumber"`
	Title          string   `json:"title"`
	Overview       string   `json:"overview"`
	AirDate        string   `json:"airDate,omitempty"`
	Runtime        int      `json:"runtime,omitempty"`
	ProductionCode string   `json:"productionCode,omitempty"`
	StillURL       string   `json:"stillUrl,omitempty"`
	VoteAverage    float64  `json:"voteAverage"`
	VoteCount      int      `json:"voteCount"`
	Crew           []Person `json:"crew"`
	GuestStars     []Person `json:"guestStars"`
}

// Person is a credited crew member or guest star.
type Person struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Role     string `json:"role,omitempty"`
	PhotoURL string `json:"photoUrl,omitempty"`
}
