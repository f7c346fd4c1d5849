package main

import "flag"
import "fmt"
import "math/rand"
import "os"
import "path/filepath"
import "time"

import "github.com/verseml/poetgpt/datasets"
import "github.com/verseml/poetgpt/datasets/gutenberg"
import "github.com/verseml/poetgpt/learning"
import "github.com/verseml/poetgpt/metrics"
import "github.com/verseml/poetgpt/net/transformer"
import "github.com/verseml/poetgpt/tensor"
import "github.com/verseml/poetgpt/tokenizer"
import "github.com/verseml/poetgpt/trainer"

func main() {
	corpus := flag.String("corpus", "gutenberg_poetry_corpus.ndjson", "ndjson poetry corpus file")
	trainratio := flag.Float64("trainratio", 0.9, "ratio of the training data")
	modeltype := flag.String("modeltype", "transformer", "model type (currently only transformer is supported)")
	seqlen := flag.Int("seqlen", 128, "max sequence length of the model")
	device := flag.String("device", "cpu", "device to use for training")
	lr := flag.Float64("lr", 0.002, "learning rate")
	warmup := flag.Int("warmup", 10, "warmup steps")
	batchsize := flag.Int("batchsize", 8, "batch size")
	epochs := flag.Int("epochs", 1, "number of epochs")
	dstmodel := flag.String("dstmodel", "", "model destination .json.t.lzw file (kept in memory only when empty)")
	resume := flag.Bool("resume", false, "resume training from dstmodel")
	seed := flag.Int64("seed", 10, "rng seed")
	flag.Parse()

	if *modeltype != "transformer" {
		println("model type", *modeltype, "not supported")
		os.Exit(1)
	}
	if err := tensor.SetDevice(*device); err != nil {
		println(err.Error())
		os.Exit(1)
	}

	rng := rand.New(rand.NewSource(*seed))

	text, err := gutenberg.ReadText(*corpus)
	if err != nil {
		println(err.Error())
		os.Exit(1)
	}
	tok := tokenizer.New(text)
	inputs, labels := gutenberg.Windows(tok.Encode(text), *seqlen)
	fmt.Println("windows:", len(inputs), "vocab size:", tok.VocabSize())

	trainIdx, valIdx := datasets.Split(len(inputs), *trainratio, rng)
	trainLoader := datasets.NewLoader(inputs, labels, trainIdx, *batchsize, rng)
	valLoader := datasets.NewLoader(inputs, labels, valIdx, *batchsize, rng)

	model := transformer.New(transformer.DefaultConfig(tok.VocabSize(), *seqlen), rng)
	fmt.Println("params:", model.NumParams())
	trainer.Resume(model, resume, dstmodel)

	h := learning.NewHyperParameters(*lr, *warmup, trainLoader.Batches()**epochs)

	writer, err := metrics.NewWriter(metrics.RunDir("runs", *modeltype, time.Now()))
	if err != nil {
		println(err.Error())
		os.Exit(1)
	}
	h.SetLogger(filepath.Join(writer.Dir(), "optimizer.txt"))

	t := &trainer.Trainer{
		Model:   model,
		H:       h,
		Train:   trainLoader,
		Val:     valLoader,
		Metrics: writer,
		Epochs:  *epochs,
	}
	if _, err := t.Run(); err != nil {
		println(err.Error())
		os.Exit(1)
	}
	if err := writer.Close(); err != nil {
		println(err.Error())
	}

	if *dstmodel != "" {
		if err := model.WriteWeightsToFile(*dstmodel); err != nil {
			println(err.Error())
			os.Exit(1)
		}
		fmt.Println("model written to", *dstmodel)
	}
}
