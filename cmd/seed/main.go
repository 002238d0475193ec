// cmd/seed/main.go
//
// Seeds a running server with sample farmers, listings and community
// posts over its public HTTP API. Useful for demos and manual testing.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"os"
	"time"

	"github.com/lmittmann/tint"
)

type farmer struct {
	FullName string `json:"fullName"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
	DOB      string `json:"dob"`
}

type listing struct {
	Name        string
	Price       int
	Unit        string
	Location    string
	Category    string
	Description string
}

type post struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	Tag   string `json:"tag"`
}

var farmers = []farmer{
	{FullName: "Ravi Kumar", Phone: "9876543210", Password: "harvest123", DOB: "1985-06-12"},
	{FullName: "Sita Devi", Phone: "9876543211", Password: "harvest123", DOB: "1990-02-28"},
	{FullName: "Arjun Patel", Phone: "9876543212", Password: "harvest123", DOB: "1978-11-03"},
}

var listings = map[string][]listing{
	"9876543210": {
		{Name: "Fresh Tomatoes", Price: 25, Unit: "kg", Location: "Nashik", Category: "Vegetables", Description: "Vine ripened, picked this morning"},
		{Name: "Wheat", Price: 22, Unit: "kg", Location: "Nashik", Category: "Grains", Description: "Sharbati variety"},
	},
	"9876543211": {
		{Name: "Alphonso Mangoes", Price: 400, Unit: "dozen", Location: "Ratnagiri", Category: "Fruits", Description: "Export quality"},
	},
	"9876543212": {
		{Name: "Organic Potatoes", Price: 18, Unit: "kg", Location: "Pune", Category: "Vegetables", Description: "No chemical fertilizers"},
	},
}

var posts = map[string][]post{
	"9876543210": {
		{Title: "Yellow spots on tomato leaves", Body: "Seeing yellow patches spreading on lower leaves after the rains. Early blight? What worked for you?", Tag: "Disease"},
	},
	"9876543211": {
		{Title: "Drip irrigation payoff", Body: "Switched the mango orchard to drip last season. Water use down by half and fruit size is up. Happy to share supplier details.", Tag: "Irrigation"},
	},
	"9876543212": {
		{Title: "Mandi prices for potatoes", Body: "Pune mandi offering 14/kg this week. Anyone getting better rates nearby?", Tag: "Market"},
	},
}

type seeder struct {
	baseURL string
	client  *http.Client
}

func newSeeder(baseURL string) (*seeder, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	return &seeder{
		baseURL: baseURL,
		client:  &http.Client{Jar: jar, Timeout: 10 * time.Second},
	}, nil
}

func (s *seeder) postJSON(path string, payload interface{}) (*http.Response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return s.client.Post(s.baseURL+path, "application/json", bytes.NewReader(body))
}

func (s *seeder) signupOrLogin(f farmer) error {
	resp, err := s.postJSON("/auth/signup", f)
	if err != nil {
		return err
	}
	drain(resp)
	if resp.StatusCode == http.StatusCreated {
		return nil
	}

	// Already registered on a previous run, log in instead
	resp, err = s.postJSON("/auth/login", map[string]string{
		"phone":    f.Phone,
		"password": f.Password,
	})
	if err != nil {
		return err
	}
	drain(resp)
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("login failed with status %d", resp.StatusCode)
	}
	return nil
}

func (s *seeder) createListing(l listing) error {
	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	fields := map[string]string{
		"name":        l.Name,
		"price":       fmt.Sprintf("%d", l.Price),
		"unit":        l.Unit,
		"location":    l.Location,
		"category":    l.Category,
		"description": l.Description,
	}
	for key, value := range fields {
		if err := form.WriteField(key, value); err != nil {
			return err
		}
	}
	if err := form.Close(); err != nil {
		return err
	}

	resp, err := s.client.Post(s.baseURL+"/marketplace/items", form.FormDataContentType(), &buf)
	if err != nil {
		return err
	}
	drain(resp)
	if resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("listing rejected with status %d", resp.StatusCode)
	}
	return nil
}

func (s *seeder) createPost(p post) error {
	resp, err := s.postJSON("/community/posts", p)
	if err != nil {
		return err
	}
	drain(resp)
	if resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("post rejected with status %d", resp.StatusCode)
	}
	return nil
}

func drain(resp *http.Response) {
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
}

func main() {
	baseURL := flag.String("url", "http://localhost:8080", "base URL of a running server")
	flag.Parse()

	slog.SetDefault(slog.New(tint.NewHandler(os.Stderr, &tint.Options{TimeFormat: time.Kitchen})))

	for _, f := range farmers {
		s, err := newSeeder(*baseURL)
		if err != nil {
			slog.Error("failed to create client", "error", err)
			os.Exit(1)
		}

		if err := s.signupOrLogin(f); err != nil {
			slog.Error("failed to sign in", "farmer", f.FullName, "error", err)
			os.Exit(1)
		}
		slog.Info("signed in", "farmer", f.FullName)

		for _, l := range listings[f.Phone] {
			if err := s.createListing(l); err != nil {
				slog.Error("failed to create listing", "listing", l.Name, "error", err)
				os.Exit(1)
			}
			slog.Info("listed", "product", l.Name, "price", l.Price)
		}

		for _, p := range posts[f.Phone] {
			if err := s.createPost(p); err != nil {
				slog.Error("failed to create post", "title", p.Title, "error", err)
				os.Exit(1)
			}
			slog.Info("posted", "title", p.Title)
		}
	}

	slog.Info("seeding complete")
}
