// Command unlock is the demo client for the pay-per-unlock server. It asks
// a question, pays the demanded SPL token price for the full answer with a
// local key, and tracks progression (XP, badges, streak) in a local state
// file. The private key is read from an environment variable, never from a
// flag, so it does not end up in shell history.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	flag "github.com/spf13/pflag"

	"github.com/Samisha68/x402-solana-hackathon/internal/kb"
	"github.com/Samisha68/x402-solana-hackathon/internal/quest"
	"github.com/Samisha68/x402-solana-hackathon/pkg/payer"
)

func main() {
	var (
		serverURL = flag.String("server", "http://localhost:8080", "pay-per-unlock server base URL")
		question  = flag.String("question", "", "question to preview and unlock")
		daily     = flag.Bool("daily", false, "unlock today's daily challenge")
		rawURL    = flag.String("url", "", "fetch an arbitrary gated URL instead")
		rpcURL    = flag.String("rpc-url", "", "override the RPC endpoint for the payment network")
		statePath = flag.String("state", defaultStatePath(), "progression state file")
		timeout   = flag.Duration("timeout", 60*time.Second, "overall request timeout")
	)
	flag.Parse()

	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	privateKey := os.Getenv("X402_PRIVATE_KEY")
	if privateKey == "" {
		log.Fatal("X402_PRIVATE_KEY is not set")
	}

	signer, err := payer.NewSignerFromPrivateKey(privateKey)
	if err != nil {
		log.WithError(err).Fatal("failed to load signer")
	}
	log.WithField("payer", signer.Address().String()).Info("wallet loaded")

	client := payer.NewClient(signer)
	client.RPCURL = *rpcURL

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	switch {
	case *rawURL != "":
		fetchRaw(ctx, log, client, *rawURL)
	case *daily:
		store := openQuestStore(log, *statePath)
		entry := fetchDaily(ctx, log, client, *serverURL)
		unlockAnswer(ctx, log, client, store, *serverURL, entry.ID)
		if _, err := store.RecordDailyCompletion(time.Now().UTC().Format(time.RFC3339)); err != nil {
			log.WithError(err).Warn("failed to record the daily completion")
		}
		printProgress(store)
	case *question != "":
		store := openQuestStore(log, *statePath)
		id := fetchPreview(ctx, log, client, *serverURL, *question)
		unlockAnswer(ctx, log, client, store, *serverURL, id)
		printProgress(store)
	default:
		log.Fatal("nothing to do: pass --question, --daily, or --url")
	}
}

func defaultStatePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "quest.json"
	}
	return home + "/.x402-quest.json"
}

func openQuestStore(log *logrus.Logger, path string) *quest.Store {
	sizes := make(map[string]int)
	for _, topic := range kb.Topics() {
		sizes[topic] = len(kb.ByTopic(topic))
	}

	store, err := quest.NewStore(quest.NewFileBackend(path), sizes)
	if err != nil {
		log.WithError(err).Fatal("failed to open progression state")
	}
	return store
}

type dailyResponse struct {
	ID    string `json:"id"`
	Q     string `json:"q"`
	Topic string `json:"topic"`
}

func fetchDaily(ctx context.Context, log *logrus.Logger, client *payer.Client, serverURL string) dailyResponse {
	resp, err := client.Get(ctx, serverURL+"/rag/daily")
	if err != nil {
		log.WithError(err).Fatal("failed to fetch the daily challenge")
	}
	defer resp.Body.Close()

	var daily dailyResponse
	if err := json.NewDecoder(resp.Body).Decode(&daily); err != nil {
		log.WithError(err).Fatal("failed to decode the daily challenge")
	}

	fmt.Printf("daily challenge: %s\n", daily.Q)
	return daily
}

func fetchPreview(ctx context.Context, log *logrus.Logger, client *payer.Client, serverURL, question string) string {
	body, _ := json.Marshal(map[string]string{"question": question})
	resp, err := client.Post(ctx, serverURL+"/rag/preview", body)
	if err != nil {
		log.WithError(err).Fatal("preview request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		log.Fatal("that question is not in the knowledge base")
	}

	var preview struct {
		ID      string `json:"id"`
		Preview string `json:"preview"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&preview); err != nil {
		log.WithError(err).Fatal("failed to decode preview")
	}

	fmt.Printf("preview: %s\n", preview.Preview)
	return preview.ID
}

func unlockAnswer(ctx context.Context, log *logrus.Logger, client *payer.Client, store *quest.Store, serverURL, id string) {
	body, _ := json.Marshal(map[string]string{"id": id})
	resp, err := client.Post(ctx, serverURL+"/rag/answer", body)
	if err != nil {
		log.WithError(err).Fatal("gated unlock failed")
	}
	defer resp.Body.Close()

	var answer struct {
		Topic    string `json:"topic"`
		AnswerMD string `json:"answerMd"`
		TxSig    string `json:"txSig"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&answer); err != nil {
		log.WithError(err).Fatal("failed to decode answer")
	}

	if receipt, err := payer.SettleReceipt(resp); err != nil {
		log.WithError(err).Warn("settle receipt is malformed")
	} else if receipt != nil {
		log.WithFields(logrus.Fields{
			"txSig":   receipt.Transaction,
			"network": receipt.Network,
		}).Info("payment settled")
	}

	fmt.Printf("\n%s\n\n", answer.AnswerMD)

	awarded, err := store.AwardUnlock(answer.Topic, id)
	if err != nil {
		log.WithError(err).Warn("failed to record the unlock")
	} else if awarded {
		fmt.Printf("+%d XP\n", quest.UnlockXP)
	}
}

func fetchRaw(ctx context.Context, log *logrus.Logger, client *payer.Client, url string) {
	resp, err := client.Get(ctx, url)
	if err != nil {
		log.WithError(err).Fatal("gated fetch failed")
	}
	defer resp.Body.Close()

	if receipt, err := payer.SettleReceipt(resp); err != nil {
		log.WithError(err).Warn("settle receipt is malformed")
	} else if receipt != nil {
		log.WithFields(logrus.Fields{
			"txSig":   receipt.Transaction,
			"network": receipt.Network,
		}).Info("payment settled")
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		log.WithError(err).Fatal("failed to read response body")
	}
	fmt.Printf("status: %s\n%s\n", resp.Status, body)
}

func printProgress(store *quest.Store) {
	state := store.Snapshot()
	fmt.Printf("xp: %d  rank: %s  streak: %d\n", state.XP, store.Rank(), state.Streak)
	if len(state.Badges) > 0 {
		fmt.Printf("badges: %v\n", state.Badges)
	}
}
