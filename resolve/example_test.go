package resolve_test

import (
	"context"
	"fmt"
	"log"

	"github.com/jonwraymond/modmeta/cache"
	"github.com/jonwraymond/modmeta/catalog"
	"github.com/jonwraymond/modmeta/curseforge"
	"github.com/jonwraymond/modmeta/modrinth"
	"github.com/jonwraymond/modmeta/observe"
	"github.com/jonwraymond/modmeta/resolve"
)

func ExampleNewEngine() {
	store, err := cache.NewFileStore("modmeta-cache.json")
	if err != nil {
		log.Fatal(err)
	}

	engine, err := resolve.NewEngine(resolve.Config{
		Primary:   modrinth.NewClient(modrinth.Config{UserAgent: "modmeta-example/1.0"}),
		Secondary: curseforge.NewClient(curseforge.Config{}),
		Store:     store,
		Logger:    observe.NewLogger("info"),
	})
	if err != nil {
		log.Fatal(err)
	}

	item := catalog.Item{
		Name: "Sodium",
		Slug: "sodium",
		Wiki: "https://modrinth.com/mod/sodium",
	}

	p := engine.Resolve(context.Background(), item)
	fmt.Println(p.Icon, p.DocURL)
}

func ExampleEngine_Request() {
	engine, err := resolve.NewEngine(resolve.Config{
		Primary: modrinth.NewClient(modrinth.Config{UserAgent: "modmeta-example/1.0"}),
	})
	if err != nil {
		log.Fatal(err)
	}

	item := catalog.Item{Name: "Lithium", Slug: "lithium"}

	// The first callback fires synchronously; when the item needs a
	// registry round-trip it reports Loading and a second callback
	// delivers the final projection.
	engine.Request(context.Background(), item, func(p resolve.Projection) {
		if p.Loading {
			fmt.Println("resolving...")
			return
		}
		fmt.Println(p.Icon, p.DocURL)
	})
}
