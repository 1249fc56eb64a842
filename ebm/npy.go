package ebm

import (
	"log"
	"os"

	"github.com/sbinet/npyio"
	"gonum.org/v1/gonum/mat"
)

//ReadNpy reads the content of an npy file into a dense matrix.
func ReadNpy(fileName string) (denseMat *mat.Dense) {
	f, err := os.Open(fileName)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { HandleError(f.Close()) }()

	r, err := npyio.NewReader(f)
	if err != nil {
		log.Fatal(err)
	}

	denseMat = &mat.Dense{}
	HandleError(r.Read(denseMat))
	return
}

//ReadBinnedDataset loads the three npy components of an already-binned
//dataset and unites them into an InteractionDataset. Bin counts are taken
//from the matrix itself: each feature's bin count is its largest index plus
//one. scoresFile may be empty for an all-zero prior.
func ReadBinnedDataset(classCount int, binnedFile, targetsFile, scoresFile string) (*InteractionDataset, error) {
	log.Print("\ttry to load binned matrix <", binnedFile, ">")
	binned := ReadNpy(binnedFile)
	log.Print("\ttry to load targets <", targetsFile, ">")
	targets := ReadNpy(targetsFile)

	var scores *mat.Dense
	if scoresFile != "" {
		log.Print("\ttry to load prior scores <", scoresFile, ">")
		scores = ReadNpy(scoresFile)
	}

	features := inferFeatures(binned)
	if classCount == ClassCountRegression {
		return NewRegressionDatasetFromDense(features, binned, targets, scores)
	}
	return NewClassificationDatasetFromDense(classCount, features, binned, targets, scores)
}

func inferFeatures(binned *mat.Dense) []FeatureAtom {
	rows, cols := binned.Dims()
	features := make([]FeatureAtom, cols)
	for q := 0; q < cols; q++ {
		maxBin := -1
		for i := 0; i < rows; i++ {
			if v := int(binned.At(i, q)); maxBin < v {
				maxBin = v
			}
		}
		features[q] = FeatureAtom{BinCount: maxBin + 1, Kind: FeatureOrdinal}
	}
	return features
}
