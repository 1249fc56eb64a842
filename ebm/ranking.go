package ebm

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"sync"
)

//InteractionPair is one scored feature pair in a ranking.
type InteractionPair struct {
	FeatureA int
	FeatureB int
	Score    float64
}

//RankInteractions scores every feature pair of the dataset and returns the
//pairs sorted by descending interaction strength. Pairs containing a
//degenerate feature (fewer than two bins) are skipped up front. Scoring fans
//out over workersNum goroutines, each owning its own context and arena;
//the dataset itself is shared read-only.
func RankInteractions(ds *InteractionDataset, minSamplesPerLeaf, workersNum int) ([]InteractionPair, error) {
	if workersNum < 1 {
		workersNum = 1
	}
	var tasks []InteractionPair
	for a := 0; a < ds.FeatureCount(); a++ {
		if ds.Feature(a).BinCount < 2 {
			continue
		}
		for b := a + 1; b < ds.FeatureCount(); b++ {
			if ds.Feature(b).BinCount < 2 {
				continue
			}
			tasks = append(tasks, InteractionPair{FeatureA: a, FeatureB: b})
		}
	}

	results := make([]InteractionPair, len(tasks))
	taskCh := make(chan int)
	errCh := make(chan error, workersNum)

	var wg sync.WaitGroup
	for w := 0; w < workersNum; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ctx := ds.NewContext()
			failed := false
			for t := range taskCh {
				if failed {
					continue // keep draining so the producer never blocks
				}
				pair := tasks[t]
				score, err := ctx.CalculateInteractionScore([]int{pair.FeatureA, pair.FeatureB}, minSamplesPerLeaf)
				if err != nil {
					errCh <- fmt.Errorf("pair (%d, %d): %w", pair.FeatureA, pair.FeatureB, err)
					failed = true
					continue
				}
				pair.Score = score
				results[t] = pair
			}
		}()
	}
	for t := range tasks {
		taskCh <- t
	}
	close(taskCh)
	wg.Wait()

	select {
	case err := <-errCh:
		return nil, err
	default:
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[j].Score < results[i].Score
	})
	return results, nil
}

//InteractionRanking is the JSON document Dump writes: the scored pairs
//plus enough dataset shape to sanity-check a later load.
type InteractionRanking struct {
	FeatureCount      int
	ClassCount        int
	MinSamplesPerLeaf int
	Pairs             []InteractionPair
}

//Dump writes a ranking as indented JSON.
func (r InteractionRanking) Dump(filename string) error {
	body, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	dest, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() { HandleError(dest.Close()) }()
	_, err = dest.Write(body)
	return err
}

//LoadRanking reads a ranking written by Dump.
func LoadRanking(filename string) (InteractionRanking, error) {
	var ranking InteractionRanking
	source, err := os.Open(filename)
	if err != nil {
		return ranking, err
	}
	defer func() { HandleError(source.Close()) }()
	decoder := json.NewDecoder(source)
	err = decoder.Decode(&ranking)
	return ranking, err
}
