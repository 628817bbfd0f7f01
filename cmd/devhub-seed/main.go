// devhub-seed populates a DevHub database with sample catalog entries and
// snippets, for local development and demos.
package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/devhubhq/devhub/pkg/catalog"
	"github.com/devhubhq/devhub/pkg/snippets"
	"github.com/devhubhq/devhub/pkg/store"
	"github.com/devhubhq/devhub/pkg/tasks"
)

var sampleApis = []catalog.Api{
	{Name: "GitHub REST", Endpoint: "https://api.github.com/repos", Method: "GET", Description: "Repository metadata"},
	{Name: "OpenWeather", Endpoint: "https://api.openweathermap.org/data/2.5/weather", Method: "GET", Description: "Current weather by city"},
	{Name: "Stripe Charges", Endpoint: "https://api.stripe.com/v1/charges", Method: "POST", Description: "Create a charge"},
	{Name: "SendGrid Mail", Endpoint: "https://api.sendgrid.com/v3/mail/send", Method: "POST", Description: "Send transactional email"},
}

var sampleSnippets = []snippets.Snippet{
	{Title: "HTTP retry loop", Language: "go", Code: "for i := 0; i < 3; i++ {\n\tresp, err := client.Do(req)\n\t...\n}", Description: "Bounded retry around an HTTP call"},
	{Title: "Debounce", Language: "javascript", Code: "const debounce = (fn, ms) => { let t; return (...a) => { clearTimeout(t); t = setTimeout(() => fn(...a), ms); }; };"},
	{Title: "Context timeout", Language: "go", Code: "ctx, cancel := context.WithTimeout(ctx, 5*time.Second)\ndefer cancel()"},
}

func main() {
	uri := flag.String("uri", "", "Mongo connection string (defaults to MONGODB_URI)")
	database := flag.String("database", "", "database name (defaults to DEVHUB_DATABASE)")
	taskUser := flag.String("task-user", "", "also assign a sample task to this user id")
	flag.Parse()

	_ = godotenv.Load()

	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	if *uri == "" {
		*uri = os.Getenv("MONGODB_URI")
	}
	if *uri == "" {
		log.Fatal("no connection string: set -uri or MONGODB_URI")
	}
	if *database == "" {
		*database = os.Getenv("DEVHUB_DATABASE")
	}

	st := store.New(store.Config{URI: *uri, Database: *database})
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	defer st.Close(ctx)

	if err := st.Ping(ctx); err != nil {
		log.WithError(err).Fatal("document store unreachable")
	}

	apiStore := store.NewCollection[catalog.Api, *catalog.Api](st, catalog.CollectionName, store.CollectionOptions{})
	for i := range sampleApis {
		if err := apiStore.Insert(ctx, &sampleApis[i]); err != nil {
			log.WithError(err).Fatal("seeding catalog failed")
		}
	}
	log.WithField("count", len(sampleApis)).Info("seeded catalog entries")

	snippetStore := store.NewCollection[snippets.Snippet, *snippets.Snippet](st, snippets.CollectionName, store.CollectionOptions{Timestamps: true})
	for i := range sampleSnippets {
		if err := snippetStore.Insert(ctx, &sampleSnippets[i]); err != nil {
			log.WithError(err).Fatal("seeding snippets failed")
		}
	}
	log.WithField("count", len(sampleSnippets)).Info("seeded snippets")

	if *taskUser != "" {
		taskStore := store.NewCollection[tasks.Task, *tasks.Task](st, tasks.CollectionName, store.CollectionOptions{Timestamps: true})
		task := tasks.Task{
			Title:       "Review the API catalog",
			Description: "Check the seeded catalog entries and remove anything unused.",
			DueDate:     tasks.DueDate{Time: time.Now().AddDate(0, 0, 7)},
			Status:      tasks.StatusPending,
			AssignedTo:  *taskUser,
		}
		if err := taskStore.Insert(ctx, &task); err != nil {
			log.WithError(err).Fatal("seeding task failed")
		}
		log.WithFields(logrus.Fields{"task": task.ID.Hex(), "user": *taskUser}).Info("seeded task")
	}
}
