// Command slidecast-seed populates the document store with test
// accounts and sample presentations for local development.
package main

import (
	"encoding/json"
	"flag"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/slidecast/slidecast/pkg/auth"
	"github.com/slidecast/slidecast/pkg/ids"
	"github.com/slidecast/slidecast/pkg/presentations"
	"github.com/slidecast/slidecast/pkg/store"
)

func main() {
	dataDir := flag.String("data-dir", "data", "Directory holding the JSON document collections")
	jwtSecret := flag.String("jwt-secret", "fallback-secret-key", "HMAC secret for presentation access tokens")
	flag.Parse()

	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	users, err := store.NewCollection[auth.User](*dataDir, "users")
	if err != nil {
		log.WithError(err).Fatal("Failed to open users collection")
	}
	presentationDocs, err := store.NewCollection[presentations.Presentation](*dataDir, "presentations")
	if err != nil {
		log.WithError(err).Fatal("Failed to open presentations collection")
	}

	issuer := auth.NewTokenIssuer(*jwtSecret, 0)

	admin := seedUser(log, users, "admin@slidecast.io", "admin123", "Administrator", auth.RoleAdmin)
	seedUser(log, users, "demo@slidecast.io", "demo123", "Demo User", auth.RoleUser)

	seedPresentation(log, presentationDocs, issuer, admin.ID, presentations.CreateRequest{
		Title:       "Commercial Proposal - Client ABC",
		Description: "Proposal for a digital transformation project",
		Content:     proposalContent(),
	}, presentations.StatusPublished)

	seedPresentation(log, presentationDocs, issuer, admin.ID, presentations.CreateRequest{
		Title:       "Technical Demo - Cloud Platform",
		Description: "Technical demonstration of cloud capabilities",
		Content:     demoContent(),
	}, presentations.StatusDraft)

	log.Info("Seeding completed")
	log.Info("Test accounts: admin@slidecast.io / admin123, demo@slidecast.io / demo123")
}

func seedUser(log *logrus.Logger, users *store.Collection[auth.User], email, password, name string, role auth.Role) auth.User {
	if existing, err := users.FindByField("email", email); err == nil {
		log.WithField("email", email).Info("User already exists, skipping")
		return existing
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		log.WithError(err).Fatal("Failed to hash password")
	}

	now := time.Now().UTC()
	user := auth.User{
		ID:        ids.New("user"),
		Email:     email,
		Password:  hash,
		Name:      name,
		Role:      role,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := users.Insert(user); err != nil {
		log.WithError(err).Fatal("Failed to create user")
	}
	log.WithFields(logrus.Fields{"email": email, "role": role}).Info("User created")
	return user
}

func seedPresentation(log *logrus.Logger, docs *store.Collection[presentations.Presentation], issuer *auth.TokenIssuer, authorID string, req presentations.CreateRequest, status presentations.Status) {
	if existing, err := docs.FindByField("title", req.Title); err == nil {
		log.WithField("title", existing.Title).Info("Presentation already exists, skipping")
		return
	}

	accessToken, err := issuer.IssueAccessGrant()
	if err != nil {
		log.WithError(err).Fatal("Failed to issue access token")
	}

	now := time.Now().UTC()
	p := presentations.Presentation{
		ID:          ids.New("pres"),
		Title:       req.Title,
		Description: req.Description,
		Content:     *req.Content,
		Status:      status,
		AccessToken: accessToken,
		AuthorID:    authorID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if _, err := docs.Insert(p); err != nil {
		log.WithError(err).Fatal("Failed to create presentation")
	}
	log.WithFields(logrus.Fields{"title": p.Title, "status": status}).Info("Presentation created")
}

func textBlock(id, text string) json.RawMessage {
	block := map[string]interface{}{
		"id":   id,
		"type": "text",
		"data": text,
	}
	raw, _ := json.Marshal(block)
	return raw
}

func proposalContent() *presentations.Content {
	content := presentations.DefaultContent()
	content.Slides = []presentations.Slide{
		{
			ID:      "slide-1",
			Type:    presentations.SlideTitle,
			Title:   "Digital Transformation",
			Content: []json.RawMessage{textBlock("content-1", "Proposal for Client ABC")},
		},
		{
			ID:      "slide-2",
			Type:    presentations.SlideContent,
			Title:   "Agenda",
			Content: []json.RawMessage{textBlock("content-2", "1. Current analysis\n2. Proposed solution\n3. Timeline\n4. Investment")},
		},
		{
			ID:      "slide-3",
			Type:    presentations.SlideContent,
			Title:   "Key Benefits",
			Content: []json.RawMessage{textBlock("content-3", "- 30% cost reduction\n- Efficiency gains\n- Process automation")},
		},
	}
	return &content
}

func demoContent() *presentations.Content {
	content := presentations.DefaultContent()
	content.Slides = []presentations.Slide{
		{
			ID:      "slide-1",
			Type:    presentations.SlideTitle,
			Title:   "Cloud Platform",
			Content: []json.RawMessage{textBlock("content-1", "Technical Demonstration")},
		},
		{
			ID:      "slide-2",
			Type:    presentations.SlideContent,
			Title:   "Architecture",
			Content: []json.RawMessage{textBlock("content-2", "Overview of the proposed cloud architecture")},
		},
	}
	content.Settings.AutoPlay = true
	content.Settings.AutoPlayDelay = 3000
	content.Settings.AllowVoice = false
	return &content
}
