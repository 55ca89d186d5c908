package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/pricing"
	pricingtypes "github.com/aws/aws-sdk-go-v2/service/pricing/types"
	log "github.com/sirupsen/logrus"

	"github.com/lambdatune/lambdatune/internal/benchmark"
)

// pricingrefresh pulls the current serverless duration rate from the AWS
// Pricing API and derives a per-memory, per-100ms price table in the JSON
// shape pricing.Load understands. Rates are derived from the published USD
// per GB-second figure, so the last digit can differ from older printed
// tables.
func main() {
	regionFlag := flag.String("region", getEnv("PRICING_REGION", "us-east-1"), "region whose rates to fetch")
	outFlag := flag.String("o", "", "output file (default stdout)")
	flag.Parse()

	ctx := context.Background()

	// The Pricing API itself is only served from us-east-1.
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion("us-east-1"))
	if err != nil {
		log.Fatalf("load AWS config: %v", err)
	}
	client := pricing.NewFromConfig(cfg)

	gbSecondUSD, err := fetchDurationRate(ctx, client, *regionFlag)
	if err != nil {
		log.Fatalf("fetch duration rate: %v", err)
	}
	log.Printf("duration rate for %s: %.10f USD per GB-second", *regionFlag, gbSecondUSD)

	rates := make(map[string]float64)
	for m := benchmark.MinMemoryMB; m <= benchmark.MaxMemoryMB; m += benchmark.MemoryStepMB {
		per100ms := gbSecondUSD * float64(m) / 1024 * 0.1
		rates[strconv.Itoa(m)] = math.Round(per100ms*1e9) / 1e9
	}

	out := os.Stdout
	if *outFlag != "" {
		f, err := os.Create(*outFlag)
		if err != nil {
			log.Fatalf("create %s: %v", *outFlag, err)
		}
		defer f.Close()
		out = f
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(map[string]any{"rates": rates}); err != nil {
		log.Fatalf("write price table: %v", err)
	}
	log.Printf("wrote %d rates", len(rates))
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// fetchDurationRate finds the on-demand USD per GB-second duration rate for
// the given region.
func fetchDurationRate(ctx context.Context, client *pricing.Client, region string) (float64, error) {
	input := &pricing.GetProductsInput{
		ServiceCode: strPtr("AWSLambda"),
		Filters: []pricingtypes.Filter{
			{Type: pricingtypes.FilterTypeTermMatch, Field: strPtr("group"), Value: strPtr("AWS-Lambda-Duration")},
			{Type: pricingtypes.FilterTypeTermMatch, Field: strPtr("regionCode"), Value: strPtr(region)},
		},
		MaxResults: int32Ptr(10),
	}

	resp, err := client.GetProducts(ctx, input)
	if err != nil {
		return 0, fmt.Errorf("GetProducts: %w", err)
	}
	if len(resp.PriceList) == 0 {
		return 0, fmt.Errorf("no duration pricing found for %s", region)
	}

	var product priceDoc
	if err := json.Unmarshal([]byte(resp.PriceList[0]), &product); err != nil {
		return 0, fmt.Errorf("parse price list: %w", err)
	}

	// The duration product is billed per second; tiered entries share the
	// same rate at the first tier, so the highest non-zero rate is the
	// undiscounted one.
	var best float64
	for _, term := range product.Terms.OnDemand {
		for _, pd := range term.PriceDimensions {
			if !strings.EqualFold(pd.Unit, "Second") && !strings.EqualFold(pd.Unit, "Seconds") {
				continue
			}
			usd, ok := pd.PricePerUnit["USD"]
			if !ok {
				continue
			}
			rate, err := strconv.ParseFloat(usd, 64)
			if err != nil {
				continue
			}
			if rate > best {
				best = rate
			}
		}
	}
	if best == 0 {
		return 0, fmt.Errorf("no per-second duration rate in price list for %s", region)
	}
	return best, nil
}

// priceDoc is the relevant structure of a Pricing API response entry.
type priceDoc struct {
	Terms struct {
		OnDemand map[string]termEntry `json:"OnDemand"`
	} `json:"terms"`
}

type termEntry struct {
	PriceDimensions map[string]priceDimension `json:"priceDimensions"`
	TermAttributes  map[string]string         `json:"termAttributes"`
}

type priceDimension struct {
	Unit         string            `json:"unit"`
	PricePerUnit map[string]string `json:"pricePerUnit"`
}

func strPtr(s string) *string { return &s }

func int32Ptr(i int32) *int32 { return &i }
