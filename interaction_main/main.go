package main

import (
	"encoding/json"
	"flag"
	"log"
	"os"
	"runtime"
	"runtime/pprof"

	"github.com/goccy/go-graphviz"
	"github.com/interpretml/ebm_interaction/ebm"
)

func decodeConfig(srcConfig string, out interface{}) {
	file, err := os.Open(srcConfig)
	ebm.HandleError(err)
	defer func() { ebm.HandleError(file.Close()) }()

	decoder := json.NewDecoder(file)
	ebm.HandleError(decoder.Decode(out))
}

type RankConfig struct {
	FileNameBinned    string `json:"filename_binned"`
	FileNameTargets   string `json:"filename_targets"`
	FileNameScores    string `json:"filename_prior_scores"`
	FileNameRanking   string `json:"filename_ranking"`
	ClassCount        int    `json:"class_count"`
	MinSamplesPerLeaf int    `json:"min_samples_per_leaf"`
	WorkersNum        int    `json:"workers_num"`
}

func rank(srcConfig string, checkTotals bool) {
	var rankConfig RankConfig
	decodeConfig(srcConfig, &rankConfig)

	ebm.SetTotalsValidation(checkTotals)

	dataset, err := ebm.ReadBinnedDataset(
		rankConfig.ClassCount,
		rankConfig.FileNameBinned,
		rankConfig.FileNameTargets,
		rankConfig.FileNameScores,
	)
	ebm.HandleError(err)

	log.Printf("ranking %d features over %d samples", dataset.FeatureCount(), dataset.Samples())

	pairs, err := ebm.RankInteractions(dataset, rankConfig.MinSamplesPerLeaf, rankConfig.WorkersNum)
	ebm.HandleError(err)

	ranking := ebm.InteractionRanking{
		FeatureCount:      dataset.FeatureCount(),
		ClassCount:        dataset.ClassCount(),
		MinSamplesPerLeaf: rankConfig.MinSamplesPerLeaf,
		Pairs:             pairs,
	}
	ebm.HandleError(ranking.Dump(rankConfig.FileNameRanking))

	for ind, pair := range pairs {
		if 10 <= ind || pair.Score <= 0 {
			break
		}
		log.Printf("pair (%d, %d) score %g", pair.FeatureA, pair.FeatureB, pair.Score)
	}
}

type GraphConfig struct {
	FileNameRanking string   `json:"filename_ranking"`
	FeatureNames    []string `json:"feature_names"`
	FigureType      string   `json:"figure_type"`
	FileNameFigure  string   `json:"filename_figure"`
	TopK            int      `json:"top_k"`
}

func graph(srcConfig string, _ bool) {
	var graphConfig GraphConfig
	decodeConfig(srcConfig, &graphConfig)

	graphvizType := map[string]graphviz.Format{
		"png": graphviz.PNG,
		"svg": graphviz.SVG,
		"jpg": graphviz.JPG,
	}[graphConfig.FigureType]
	if graphvizType == "" {
		graphvizType = graphviz.SVG
	}
	topK := graphConfig.TopK
	if topK == 0 {
		topK = 10
	}

	ranking, err := ebm.LoadRanking(graphConfig.FileNameRanking)
	ebm.HandleError(err)

	ebm.HandleError(ebm.RenderInteractionGraph(ranking, graphConfig.FeatureNames, topK, graphvizType, graphConfig.FileNameFigure))
}

func main() {
	runMode := flag.String("mode", "rank", "you can select either 'rank' or 'graph' modes")
	config := flag.String("config", "interaction_config.json", "a config file for the run of the program")
	checkTotals := flag.Bool("check", false, "verify the prefix-sum totals build against a reference tensor")
	memprofile := flag.String("memprofile", "", "write memory profile to `file`")

	flag.Parse()

	map[string]func(string, bool){
		"rank":  rank,
		"graph": graph,
	}[*runMode](*config, *checkTotals)

	if *memprofile != "" {
		f, err := os.Create(*memprofile)
		ebm.HandleError(err)
		defer func() { ebm.HandleError(f.Close()) }()
		runtime.GC()
		if err := pprof.WriteHeapProfile(f); err != nil {
			log.Fatal("could not write memory profile: ", err)
		}
	}
}
