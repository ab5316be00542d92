// main.go - aekey: balance key management and proof instruction tooling.
//
// Usage:
//   aekey new [--mnemonic]             generate a key file
//   aekey recover --phrase "..."       recover a key from a seed phrase
//   aekey from-seed --seed <hex>       derive a key from raw seed bytes
//   aekey derive --keypair-seed <hex> --address <base58>
//   aekey encrypt <amount>             print the encrypted balance
//   aekey decrypt <ciphertext>         print the decrypted balance
//   aekey inspect-ix <hex>             describe proof instruction data
//   aekey close-context ...            build a CloseContextState instruction
//   aekey selftest                     run the built-in self tests
//
// Settings come from the JSON config file (--config); flags override it.

package main

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tyler-smith/go-bip39"

	"zktoken/chain"
	"zktoken/encryption"
	"zktoken/proofdata"
	"zktoken/proofinstruction"
)

const version = "0.3.0"

var (
	configPath   string
	logLevelFlag string
	outputFlag   string
	keyPathFlag  string
	forceFlag    bool

	newMnemonic     bool
	phraseFlag      string
	passphraseFlag  string
	seedFlag        string
	keypairSeedFlag string
	addressFlag     string

	contextAccountFlag   string
	contextAuthorityFlag string
	destinationFlag      string

	cfg    *Config
	logger *Logger
)

var rootCmd = &cobra.Command{
	Use:           "aekey",
	Short:         "Manage balance encryption keys and zk proof instructions",
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = LoadConfig(configPath)
		if err != nil {
			return err
		}
		if logLevelFlag != "" {
			cfg.LogLevel = logLevelFlag
		}
		if outputFlag != "" {
			cfg.OutputFormat = outputFlag
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		logger, err = NewLogger(cfg.LogLevel, cfg.LogFile, cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		logger.Debug().Str("config", configPath).Str("command", cmd.Name()).Msg("configuration loaded")
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if logger != nil {
			return logger.Close()
		}
		return nil
	},
}

// =============================================================================
// KEY COMMANDS
// =============================================================================

var newCmd = &cobra.Command{
	Use:   "new",
	Short: "Generate a new key file",
	Long: `Generate a new balance encryption key and write it to the key file.

By default the key is 16 random bytes. With --mnemonic a BIP39 seed phrase is
generated instead and the key is derived from it; write the phrase down, it is
the only backup.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !newMnemonic {
			key, err := encryption.GenerateAeKey()
			if err != nil {
				return err
			}
			defer key.Zeroize()
			return saveKey(cmd, key)
		}

		entropy, err := bip39.NewEntropy(cfg.entropyBits())
		if err != nil {
			return fmt.Errorf("generating mnemonic entropy: %w", err)
		}
		defer clear(entropy)
		mnemonic, err := bip39.NewMnemonic(entropy)
		if err != nil {
			return fmt.Errorf("generating mnemonic: %w", err)
		}
		key, err := encryption.AeKeyFromSeedPhraseAndPassphrase(mnemonic, passphraseFlag)
		if err != nil {
			return err
		}
		defer key.Zeroize()
		if err := saveKey(cmd, key); err != nil {
			return err
		}
		logger.Warn().Msg("store the seed phrase below safely; it is the only way to recover this key")
		return emit(cmd.OutOrStdout(), field{"seed_phrase", mnemonic})
	},
}

var recoverCmd = &cobra.Command{
	Use:   "recover",
	Short: "Recover a key file from a seed phrase",
	Long: `Recover a key from a seed phrase and optional passphrase. If --phrase is
not given the phrase is read from standard input.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		phrase := phraseFlag
		if phrase == "" {
			raw, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return fmt.Errorf("reading seed phrase: %w", err)
			}
			phrase = string(raw)
		}
		phrase = strings.Join(strings.Fields(phrase), " ")
		if phrase == "" {
			return errors.New("empty seed phrase")
		}
		if !bip39.IsMnemonicValid(phrase) {
			logger.Warn().Msg("seed phrase is not a valid BIP39 mnemonic; deriving anyway")
		}

		key, err := encryption.AeKeyFromSeedPhraseAndPassphrase(phrase, passphraseFlag)
		if err != nil {
			return err
		}
		defer key.Zeroize()
		return saveKey(cmd, key)
	},
}

var fromSeedCmd = &cobra.Command{
	Use:   "from-seed",
	Short: "Derive a key file from hex seed bytes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		seed, err := hex.DecodeString(seedFlag)
		if err != nil {
			return fmt.Errorf("decoding --seed: %w", err)
		}
		defer clear(seed)
		key, err := encryption.AeKeyFromSeed(seed)
		if err != nil {
			return err
		}
		defer key.Zeroize()
		return saveKey(cmd, key)
	},
}

var deriveCmd = &cobra.Command{
	Use:   "derive",
	Short: "Derive the key bound to a token account from a signing keypair",
	Long: `Derive the key for a token account by signing the key derivation message
with the Ed25519 keypair expanded from --keypair-seed, as a wallet holding that
seed would. The same keypair and address always produce the same key.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		seed, err := hex.DecodeString(keypairSeedFlag)
		if err != nil {
			return fmt.Errorf("decoding --keypair-seed: %w", err)
		}
		defer clear(seed)
		kp, err := chain.KeypairFromSeed(seed)
		if err != nil {
			return err
		}
		address, err := chain.PubkeyFromBase58(addressFlag)
		if err != nil {
			return fmt.Errorf("parsing --address: %w", err)
		}

		key, err := encryption.NewAeKey(kp, address)
		if err != nil {
			return err
		}
		defer key.Zeroize()

		signer, _ := kp.Pubkey()
		logger.Info().Str("signer", signer.String()).Str("address", address.String()).Msg("derived key")
		return saveKey(cmd, key)
	},
}

// =============================================================================
// BALANCE COMMANDS
// =============================================================================

var encryptCmd = &cobra.Command{
	Use:   "encrypt <amount>",
	Short: "Encrypt a balance under the key file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		amount, err := strconv.ParseUint(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("parsing amount: %w", err)
		}
		key, err := loadKey()
		if err != nil {
			return err
		}
		defer key.Zeroize()

		ct := key.Encrypt(amount)
		return emit(cmd.OutOrStdout(), field{"ciphertext", ct.String()})
	},
}

var decryptCmd = &cobra.Command{
	Use:   "decrypt <ciphertext>",
	Short: "Decrypt a base64 balance ciphertext with the key file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ct, err := encryption.ParseAeCiphertext(strings.TrimSpace(args[0]))
		if err != nil {
			return err
		}
		key, err := loadKey()
		if err != nil {
			return err
		}
		defer key.Zeroize()

		amount, ok := key.Decrypt(ct)
		if !ok {
			return errors.New("ciphertext does not authenticate under this key")
		}
		return emit(cmd.OutOrStdout(), field{"amount", strconv.FormatUint(amount, 10)})
	},
}

// =============================================================================
// INSTRUCTION COMMANDS
// =============================================================================

var inspectCmd = &cobra.Command{
	Use:   "inspect-ix <hex>",
	Short: "Describe hex-encoded proof instruction data",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := hex.DecodeString(strings.TrimPrefix(strings.TrimSpace(args[0]), "0x"))
		if err != nil {
			return fmt.Errorf("decoding instruction data: %w", err)
		}
		return emit(cmd.OutOrStdout(), describeInstruction(data)...)
	},
}

var closeContextCmd = &cobra.Command{
	Use:   "close-context",
	Short: "Build a CloseContextState instruction",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var info proofinstruction.ContextStateInfo
		var destination chain.Pubkey
		var err error
		if info.ContextStateAccount, err = chain.PubkeyFromBase58(contextAccountFlag); err != nil {
			return fmt.Errorf("parsing --account: %w", err)
		}
		if info.ContextStateAuthority, err = chain.PubkeyFromBase58(contextAuthorityFlag); err != nil {
			return fmt.Errorf("parsing --authority: %w", err)
		}
		if destination, err = chain.PubkeyFromBase58(destinationFlag); err != nil {
			return fmt.Errorf("parsing --destination: %w", err)
		}

		ix := proofinstruction.NewCloseContextState(info, destination)
		return emit(cmd.OutOrStdout(), describeAccounts(ix)...)
	},
}

var selftestCmd = &cobra.Command{
	Use:   "selftest",
	Short: "Run the built-in self tests",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		hc := NewHealthChecker(version)
		registerSelfTests(hc, cfg.KeyDir)
		health := hc.CheckHealth()

		if cfg.OutputFormat == "json" {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(health); err != nil {
				return err
			}
		} else {
			for _, c := range health.Components {
				fmt.Fprintf(cmd.OutOrStdout(), "%-20s %-9s %s (%s)\n", c.Name, c.Status, c.Message, c.Latency)
			}
		}
		if health.OverallStatus != Healthy {
			return errors.New("self tests failed")
		}
		logger.Info().Int("checks", len(health.Components)).Msg("all self tests passed")
		return nil
	},
}

// =============================================================================
// HELPERS
// =============================================================================

func keyPath() string {
	if keyPathFlag != "" {
		return keyPathFlag
	}
	return cfg.KeyPath()
}

func loadKey() (*encryption.AeKey, error) {
	path := keyPath()
	key, err := encryption.ReadAeKeyFile(path)
	if err != nil {
		return nil, err
	}
	logger.Debug().Str("path", path).Msg("loaded key file")
	return key, nil
}

func saveKey(cmd *cobra.Command, key *encryption.AeKey) error {
	path := keyPath()
	if !forceFlag {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists; use --force to overwrite it", path)
		}
	}
	if err := key.WriteFile(path); err != nil {
		return err
	}
	logger.Info().Str("path", path).Msg("wrote key file")
	return emit(cmd.OutOrStdout(), field{"key_file", path})
}

// field is one line of command output
type field struct {
	Name  string
	Value string
}

// emit prints fields as "name: value" lines or as one JSON object
func emit(w io.Writer, fields ...field) error {
	if cfg != nil && cfg.OutputFormat == "json" {
		obj := make(map[string]string, len(fields))
		for _, f := range fields {
			obj[f.Name] = f.Value
		}
		return json.NewEncoder(w).Encode(obj)
	}
	for _, f := range fields {
		if _, err := fmt.Fprintf(w, "%s: %s\n", f.Name, f.Value); err != nil {
			return err
		}
	}
	return nil
}

// describeInstruction reports the instruction type of data and whether its
// payload is a well-formed record for that type.
func describeInstruction(data []byte) []field {
	kind, ok := proofinstruction.InstructionType(data)
	if !ok {
		return []field{{"instruction", "unknown"}}
	}
	fields := []field{
		{"instruction", kind.String()},
		{"payload_bytes", strconv.Itoa(len(data) - 1)},
	}
	if kind == proofinstruction.CloseContextState {
		return append(fields, field{"valid", strconv.FormatBool(len(data) == 1)})
	}

	var record proofdata.Record
	switch kind {
	case proofinstruction.VerifyZeroBalance:
		record, ok = decodeRecord[proofdata.ZeroBalanceProofData](data)
	case proofinstruction.VerifyWithdraw:
		record, ok = decodeRecord[proofdata.WithdrawData](data)
	case proofinstruction.VerifyCiphertextCiphertextEquality:
		record, ok = decodeRecord[proofdata.CiphertextCiphertextEqualityProofData](data)
	case proofinstruction.VerifyTransfer:
		record, ok = decodeRecord[proofdata.TransferData](data)
	case proofinstruction.VerifyTransferWithFee:
		record, ok = decodeRecord[proofdata.TransferWithFeeData](data)
	case proofinstruction.VerifyPubkeyValidity:
		record, ok = decodeRecord[proofdata.PubkeyValidityData](data)
	}
	fields = append(fields,
		field{"proof_type", kind.ProofType().String()},
		field{"valid", strconv.FormatBool(ok)},
	)
	if ok {
		fields = append(fields, field{"record_bytes", strconv.Itoa(proofdata.Size(record))})
	}
	return fields
}

func decodeRecord[T any, PT interface {
	*T
	proofdata.Record
}](data []byte) (proofdata.Record, bool) {
	v, ok := proofinstruction.ProofData[T, PT](data)
	if !ok {
		return nil, false
	}
	return PT(v), true
}

func describeAccounts(ix chain.Instruction) []field {
	fields := []field{{"program_id", ix.ProgramID.String()}}
	for i, meta := range ix.Accounts {
		access := "readonly"
		if meta.IsWritable {
			access = "writable"
		}
		if meta.IsSigner {
			access += ",signer"
		}
		fields = append(fields, field{fmt.Sprintf("account_%d", i), meta.Pubkey.String() + " " + access})
	}
	return append(fields, field{"data", hex.EncodeToString(ix.Data)})
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "aekey.config.json", "config file path")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "log level (debug, info, warn, error, disabled)")
	rootCmd.PersistentFlags().StringVarP(&outputFlag, "output", "o", "", "output format (text, json)")

	for _, cmd := range []*cobra.Command{newCmd, recoverCmd, fromSeedCmd, deriveCmd} {
		cmd.Flags().StringVarP(&keyPathFlag, "out", "k", "", "key file to write (default from config)")
		cmd.Flags().BoolVarP(&forceFlag, "force", "f", false, "overwrite an existing key file")
	}
	for _, cmd := range []*cobra.Command{encryptCmd, decryptCmd} {
		cmd.Flags().StringVarP(&keyPathFlag, "key", "k", "", "key file to read (default from config)")
	}

	newCmd.Flags().BoolVarP(&newMnemonic, "mnemonic", "m", false, "derive the key from a new BIP39 seed phrase")
	newCmd.Flags().StringVar(&passphraseFlag, "passphrase", "", "BIP39 passphrase (with --mnemonic)")

	recoverCmd.Flags().StringVar(&phraseFlag, "phrase", "", "seed phrase (read from stdin if empty)")
	recoverCmd.Flags().StringVar(&passphraseFlag, "passphrase", "", "BIP39 passphrase")

	fromSeedCmd.Flags().StringVar(&seedFlag, "seed", "", "hex seed, at least 16 bytes")
	_ = fromSeedCmd.MarkFlagRequired("seed")

	deriveCmd.Flags().StringVar(&keypairSeedFlag, "keypair-seed", "", "hex 32-byte Ed25519 keypair seed")
	deriveCmd.Flags().StringVar(&addressFlag, "address", "", "base58 token account address")
	_ = deriveCmd.MarkFlagRequired("keypair-seed")
	_ = deriveCmd.MarkFlagRequired("address")

	closeContextCmd.Flags().StringVar(&contextAccountFlag, "account", "", "base58 context state account")
	closeContextCmd.Flags().StringVar(&contextAuthorityFlag, "authority", "", "base58 context state authority")
	closeContextCmd.Flags().StringVar(&destinationFlag, "destination", "", "base58 destination account")
	_ = closeContextCmd.MarkFlagRequired("account")
	_ = closeContextCmd.MarkFlagRequired("authority")
	_ = closeContextCmd.MarkFlagRequired("destination")

	rootCmd.AddCommand(newCmd, recoverCmd, fromSeedCmd, deriveCmd,
		encryptCmd, decryptCmd, inspectCmd, closeContextCmd, selftestCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "aekey: %v\n", err)
		os.Exit(1)
	}
}
