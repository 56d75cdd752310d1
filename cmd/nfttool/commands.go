package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/gagliardetto/solana-go"
	flag "github.com/spf13/pflag"

	"github.com/solnft/toolbox-go/cnft"
	"github.com/solnft/toolbox-go/fees"
	"github.com/solnft/toolbox-go/ledger"
	"github.com/solnft/toolbox-go/nft"
	"github.com/solnft/toolbox-go/royalty"
)

func newFlagSet(name string) *flag.FlagSet {
	return flag.NewFlagSet(name, flag.ContinueOnError)
}

func runFees(e *env, args []string) error {
	fs := newFlagSet("fees")
	amount := fs.Uint64("amount", 0, "sale price in lamports or token base units")
	feeBps := fs.Uint16("fee-bps", e.cfg.TakerFeeBps, "total taker fee in basis points")
	brokerPct := fs.Uint16("broker-pct", e.cfg.BrokerFeePct, "share of the fee paid to brokers")
	makerPct := fs.Uint16("maker-broker-pct", e.cfg.MakerBrokerPct, "share of the broker pool paid to the maker broker")
	discount := fs.Bool("discount", e.cfg.FeeDiscount, "apply the fee discount")
	if err := fs.Parse(args); err != nil {
		return err
	}

	b, err := fees.ComputeFees(*amount, fees.FeeConfig{
		TotalFeeBps:    *feeBps,
		BrokerFeePct:   *brokerPct,
		MakerBrokerPct: *makerPct,
		Discount:       *discount,
	})
	if err != nil {
		return err
	}
	e.log.Debug("computed fees", "amount", *amount, "taker_fee", b.TakerFee)

	fmt.Fprintf(e.out, "taker_fee        %d\n", b.TakerFee)
	fmt.Fprintf(e.out, "protocol_fee     %d\n", b.ProtocolFee)
	fmt.Fprintf(e.out, "maker_broker_fee %d\n", b.MakerBrokerFee)
	fmt.Fprintf(e.out, "taker_broker_fee %d\n", b.TakerBrokerFee)
	return nil
}

func runRoyalty(e *env, args []string) error {
	fs := newFlagSet("royalty")
	amount := fs.Uint64("amount", 0, "sale price")
	sellerFeeBps := fs.Uint16("seller-fee-bps", 0, "royalty rate from the NFT metadata")
	pct := fs.Int("royalty-pct", -1, "percentage of the royalty the buyer pays (-1 = none)")
	standard := fs.String("standard", "", "token standard; programmable standards force 100%")
	if err := fs.Parse(args); err != nil {
		return err
	}

	ra := fees.RoyaltyArgs{SellerFeeBps: *sellerFeeBps, Amount: *amount}
	if *pct >= 0 {
		if *pct > 255 {
			return fmt.Errorf("%w: %d", fees.ErrBadRoyaltyPercentage, *pct)
		}
		ra.RoyaltyPct = fees.Pct(uint8(*pct))
	}
	if *standard != "" {
		std, err := nft.ParseTokenStandard(*standard)
		if err != nil {
			return err
		}
		ra.Enforced = nft.IsRoyaltyEnforced(&std)
	}

	fee, err := fees.CreatorRoyalty(ra)
	if err != nil {
		return err
	}
	fmt.Fprintf(e.out, "creator_fee %d\n", fee)
	return nil
}

func runDistribute(e *env, args []string) error {
	fs := newFlagSet("distribute")
	fee := fs.Uint64("fee", 0, "creator fee to distribute, in lamports")
	creatorArgs := fs.StringArray("creator", nil, "creator as ADDRESS:SHARE[:verified], repeatable, in order")
	balanceArgs := fs.StringArray("balance", nil, "starting balance as ADDRESS:LAMPORTS, repeatable")
	if err := fs.Parse(args); err != nil {
		return err
	}

	creators, err := parseCreators(*creatorArgs)
	if err != nil {
		return err
	}

	bank := ledger.NewBank(e.cfg.Rent(), ledger.WithLogger(e.log))
	for _, arg := range *balanceArgs {
		key, lamports, err := parseBalance(arg)
		if err != nil {
			return err
		}
		bank.SetAccount(key, ledger.Account{Lamports: lamports})
	}

	payer := solana.NewWallet().PublicKey()
	bank.SetAccount(payer, ledger.Account{Lamports: *fee})

	keys := make([]solana.PublicKey, len(creators))
	for i, c := range creators {
		keys[i] = c.Address
	}

	var res royalty.Result
	err = bank.Atomic(func(b *ledger.Bank) error {
		var err error
		res, err = royalty.NewDistributor(e.log).Distribute(creators, royalty.NewAccounts(keys...), *fee,
			royalty.Sol{Bank: b, From: royalty.FromExternal{Key: payer}})
		return err
	})
	if err != nil {
		return err
	}

	for _, p := range res.Payouts {
		fmt.Fprintf(e.out, "paid    %s %d\n", p.Creator, p.Amount)
	}
	for _, k := range res.Skipped {
		fmt.Fprintf(e.out, "skipped %s\n", k)
	}
	fmt.Fprintf(e.out, "amount_paid %d\n", res.AmountPaid)
	fmt.Fprintf(e.out, "dust        %d\n", res.Dust())
	return nil
}

func runVerify(e *env, args []string) error {
	fs := newFlagSet("verify")
	rootFlag := fs.String("root", "", "tree root (base58)")
	leafFlag := fs.String("leaf", "", "leaf hash (base58)")
	proofFlag := fs.StringSlice("proof", nil, "proof nodes leaf to root (base58, comma separated)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	root, err := cnft.DecodeHash(*rootFlag)
	if err != nil {
		return fmt.Errorf("--root: %w", err)
	}
	leaf, err := cnft.DecodeHash(*leafFlag)
	if err != nil {
		return fmt.Errorf("--leaf: %w", err)
	}
	proof, err := cnft.DecodeProof(*proofFlag)
	if err != nil {
		return fmt.Errorf("--proof: %w", err)
	}

	if err := cnft.VerifyLeaf(root, leaf, proof); err != nil {
		return err
	}
	fmt.Fprintln(e.out, "ok")
	return nil
}

func runAssetID(e *env, args []string) error {
	fs := newFlagSet("asset-id")
	treeFlag := fs.String("tree", "", "merkle tree account (base58)")
	nonce := fs.Uint64("nonce", 0, "leaf nonce")
	if err := fs.Parse(args); err != nil {
		return err
	}

	tree, err := solana.PublicKeyFromBase58(*treeFlag)
	if err != nil {
		return fmt.Errorf("--tree: %w", err)
	}
	id, err := cnft.AssetID(tree, *nonce)
	if err != nil {
		return err
	}
	fmt.Fprintln(e.out, id.String())
	return nil
}

func runAudit(e *env, args []string) error {
	fs := newFlagSet("audit")
	dbFlag := fs.String("db", e.cfg.LeafStorePath(), "leaf store database")
	if err := fs.Parse(args); err != nil {
		return err
	}

	store, err := cnft.OpenBoltLeafStore(*dbFlag)
	if err != nil {
		return err
	}
	defer store.Close()

	recs, err := store.ListLeaves()
	if err != nil {
		return err
	}

	var failed int
	for _, rec := range recs {
		if err := cnft.VerifyRecord(rec); err != nil {
			failed++
			e.log.Warn("leaf failed verification", "asset", rec.AssetID().String(), "error", err)
			fmt.Fprintf(e.out, "FAIL %s %v\n", rec.AssetID(), err)
			continue
		}
		fmt.Fprintf(e.out, "ok   %s\n", rec.AssetID())
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d leaves failed verification", failed, len(recs))
	}
	return nil
}

func parseCreators(args []string) ([]nft.Creator, error) {
	creators := make([]nft.Creator, 0, len(args))
	for _, arg := range args {
		parts := strings.Split(arg, ":")
		if len(parts) < 2 || len(parts) > 3 {
			return nil, fmt.Errorf("creator %q: want ADDRESS:SHARE[:verified]", arg)
		}
		key, err := solana.PublicKeyFromBase58(parts[0])
		if err != nil {
			return nil, fmt.Errorf("creator %q: %w", arg, err)
		}
		share, err := strconv.ParseUint(parts[1], 10, 8)
		if err != nil {
			return nil, fmt.Errorf("creator %q share: %w", arg, err)
		}
		c := nft.Creator{Address: key, Share: uint8(share)}
		if len(parts) == 3 {
			if parts[2] != "verified" {
				return nil, fmt.Errorf("creator %q: unknown flag %q", arg, parts[2])
			}
			c.Verified = true
		}
		creators = append(creators, c)
	}
	if len(creators) == 0 {
		return nil, errors.New("at least one --creator is required")
	}
	return creators, nil
}

func parseBalance(arg string) (solana.PublicKey, uint64, error) {
	addr, amount, ok := strings.Cut(arg, ":")
	if !ok {
		return solana.PublicKey{}, 0, fmt.Errorf("balance %q: want ADDRESS:LAMPORTS", arg)
	}
	key, err := solana.PublicKeyFromBase58(addr)
	if err != nil {
		return solana.PublicKey{}, 0, fmt.Errorf("balance %q: %w", arg, err)
	}
	lamports, err := strconv.ParseUint(amount, 10, 64)
	if err != nil {
		return solana.PublicKey{}, 0, fmt.Errorf("balance %q: %w", arg, err)
	}
	return key, lamports, nil
}
