package letterboxd

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"math"
	"strconv"
	"strings"
)

const unknownTitle = "Unknown"

// ReviewRecord is one parsed feed entry, ready for import.
type ReviewRecord struct {
	TMDBID      int     `json:"tmdb_id"`
	FilmTitle   string  `json:"film_title"`
	FilmYear    string  `json:"film_year"`
	Rating      float64 `json:"rating"` // 1-10 scale, 0 when unrated
	Review      string  `json:"review"`
	WatchedDate string  `json:"watched_date,omitempty"` // YYYY-MM-DD
	Rewatch     bool    `json:"rewatch"`
	Link        string  `json:"link"`
	ReviewID    string  `json:"review_id"`
	PubDate     string  `json:"pub_date"`
}

// Label renders the record as "Title (Year)".
func (r ReviewRecord) Label() string {
	return fmt.Sprintf("%s (%s)", r.FilmTitle, r.FilmYear)
}

// Feed is the parsed form of a member feed.
type Feed struct {
	Title   string
	Records []ReviewRecord
	// Dropped counts entries discarded for missing a movie id or guid.
	Dropped int
}

type rssDocument struct {
	XMLName xml.Name   `xml:"rss"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title string    `xml:"title"`
	Items []rssItem `xml:"item"`
}

type rssItem struct {
	Title        string `xml:"title"`
	Link         string `xml:"link"`
	GUID         string `xml:"guid"`
	PubDate      string `xml:"pubDate"`
	Description  string `xml:"description"`
	MemberRating string `xml:"https://letterboxd.com memberRating"`
	FilmTitle    string `xml:"https://letterboxd.com filmTitle"`
	FilmYear     string `xml:"https://letterboxd.com filmYear"`
	WatchedDate  string `xml:"https://letterboxd.com watchedDate"`
	Rewatch      string `xml:"https://letterboxd.com rewatch"`
	MovieID      string `xml:"https://themoviedb.org movieId"`
}

// Parse returns the review records of a feed in feed order.
func Parse(data []byte) ([]ReviewRecord, error) {
	feed, err := ParseFeed(data)
	if err != nil {
		return nil, err
	}
	return feed.Records, nil
}

// ParseFeed parses raw feed markup. A document that is not RSS fails with
// *FeedParseError; problems with individual entries only drop that entry.
func ParseFeed(data []byte) (*Feed, error) {
	decoder := xml.NewDecoder(bytes.NewReader(data))
	decoder.Entity = xml.HTMLEntity

	var doc rssDocument
	if err := decoder.Decode(&doc); err != nil {
		return nil, &FeedParseError{Err: err}
	}

	feed := &Feed{
		Title:   strings.TrimSpace(doc.Channel.Title),
		Records: make([]ReviewRecord, 0, len(doc.Channel.Items)),
	}
	for _, item := range doc.Channel.Items {
		record, ok := item.toRecord()
		if !ok {
			feed.Dropped++
			continue
		}
		feed.Records = append(feed.Records, record)
	}
	return feed, nil
}

func (item rssItem) toRecord() (ReviewRecord, bool) {
	movieID, err := strconv.Atoi(strings.TrimSpace(item.MovieID))
	if err != nil || movieID <= 0 {
		return ReviewRecord{}, false
	}
	guid := strings.TrimSpace(item.GUID)
	if guid == "" {
		return ReviewRecord{}, false
	}

	title := strings.TrimSpace(item.FilmTitle)
	if title == "" {
		title = unknownTitle
	}

	return ReviewRecord{
		TMDBID:      movieID,
		FilmTitle:   title,
		FilmYear:    strings.TrimSpace(item.FilmYear),
		Rating:      normalizeRating(item.MemberRating),
		Review:      Sanitize(item.Description),
		WatchedDate: strings.TrimSpace(item.WatchedDate),
		Rewatch:     strings.EqualFold(strings.TrimSpace(item.Rewatch), "yes"),
		Link:        strings.TrimSpace(item.Link),
		ReviewID:    guid,
		PubDate:     strings.TrimSpace(item.PubDate),
	}, true
}

// maxStars is the top of the Letterboxd star scale.
const maxStars = 5.0

// normalizeRating converts the 0.5-5.0 star rating to the 1-10 scale.
// Missing, unparseable and out-of-range ratings are 0.
func normalizeRating(raw string) float64 {
	stars, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(stars) || stars <= 0 || stars > maxStars {
		return 0
	}
	return stars * 2
}
