package wallet

import (
	"crypto/rand"
	"errors"
	"fmt"
	"strings"

	"github.com/tyler-smith/go-bip39"
)

// MnemonicStrength 助记词强度
type MnemonicStrength int

const (
	// Mnemonic12Words 12个助记词 (128 bits 熵)
	Mnemonic12Words MnemonicStrength = 128
	// Mnemonic15Words 15个助记词 (160 bits 熵)
	Mnemonic15Words MnemonicStrength = 160
	// Mnemonic18Words 18个助记词 (192 bits 熵)
	Mnemonic18Words MnemonicStrength = 192
	// Mnemonic21Words 21个助记词 (224 bits 熵)
	Mnemonic21Words MnemonicStrength = 224
	// Mnemonic24Words 24个助记词 (256 bits 熵)
	Mnemonic24Words MnemonicStrength = 256
)

// StrengthForWords 根据单词数量返回强度，不支持的数量返回错误
func StrengthForWords(words int) (MnemonicStrength, error) {
	switch words {
	case 12:
		return Mnemonic12Words, nil
	case 15:
		return Mnemonic15Words, nil
	case 18:
		return Mnemonic18Words, nil
	case 21:
		return Mnemonic21Words, nil
	case 24:
		return Mnemonic24Words, nil
	}
	return 0, fmt.Errorf("invalid word count: %d, must be 12, 15, 18, 21 or 24", words)
}

// GenerateMnemonic 生成助记词
// strength: 熵的位数，支持 128(12词), 160(15词), 192(18词), 224(21词), 256(24词)
func GenerateMnemonic(strength MnemonicStrength) (string, error) {
	switch strength {
	case Mnemonic12Words, Mnemonic15Words, Mnemonic18Words, Mnemonic21Words, Mnemonic24Words:
	default:
		return "", fmt.Errorf("invalid mnemonic strength: %d, must be 128, 160, 192, 224, or 256", strength)
	}

	entropy := make([]byte, int(strength)/8)
	if _, err := rand.Read(entropy); err != nil {
		return "", fmt.Errorf("failed to generate entropy: %w", err)
	}

	mnemonic, err := bip39.NewMnemonic(entropy)
	if err != nil {
		return "", fmt.Errorf("failed to generate mnemonic: %w", err)
	}
	return mnemonic, nil
}

// ValidateMnemonic 验证助记词是否有效
func ValidateMnemonic(mnemonic string) bool {
	return bip39.IsMnemonicValid(normalizeSpaces(mnemonic))
}

// MnemonicToSeed 将助记词转换为种子
// passphrase 是可选的 BIP39 密码
func MnemonicToSeed(mnemonic, passphrase string) ([]byte, error) {
	mnemonic = normalizeSpaces(mnemonic)
	if !bip39.IsMnemonicValid(mnemonic) {
		return nil, errors.New("invalid mnemonic")
	}
	return bip39.NewSeed(mnemonic, passphrase), nil
}

// WordCount 获取助记词单词数量
func WordCount(mnemonic string) int {
	return len(strings.Fields(mnemonic))
}

// normalizeSpaces 规范化空格（将多个连续空格替换为单个空格）
func normalizeSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
