package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/joho/godotenv"

	"animal-reels-bot/internal/ledger"
)

const usage = `usage: ledgerctl <command> [args]

commands:
  list           print every recorded clip identifier
  count          print the number of recorded identifiers
  remove <id>    remove one identifier from the ledger
  clear          reset the ledger to the empty set

The ledger path comes from LEDGER_PATH (default used_videos.json).`

func main() {
	_ = godotenv.Load(".env")

	path := os.Getenv("LEDGER_PATH")
	if path == "" {
		path = "used_videos.json"
	}

	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}

	store := ledger.NewFileStore(path)
	ctx := context.Background()

	switch os.Args[1] {
	case "list":
		used, err := store.Load(ctx)
		fatalIf(err)
		ids := make([]string, 0, len(used))
		for id := range used {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		for _, id := range ids {
			fmt.Println(id)
		}
	case "count":
		used, err := store.Load(ctx)
		fatalIf(err)
		fmt.Println(len(used))
	case "remove":
		if len(os.Args) < 3 {
			fmt.Fprintln(os.Stderr, usage)
			os.Exit(2)
		}
		used, err := store.Load(ctx)
		fatalIf(err)
		if !used[os.Args[2]] {
			fmt.Fprintf(os.Stderr, "id %s not in ledger\n", os.Args[2])
			os.Exit(1)
		}
		delete(used, os.Args[2])
		fatalIf(writeSet(path, used))
	case "clear":
		fatalIf(writeSet(path, map[string]bool{}))
	default:
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}
}

func writeSet(path string, used map[string]bool) error {
	ids := make([]string, 0, len(used))
	for id := range used {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	data, err := json.Marshal(ids)
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func fatalIf(err error) {
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
