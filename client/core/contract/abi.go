// Package contract 基于 go-ethereum 实现图书借阅合约的绑定
package contract

import (
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// LibraryAddress 图书合约部署地址（goerli），运行期不可配置
const LibraryAddress = "0xE663074c9ca6B331526E592196Bd6f2d192FA827"

// 合约方法名
const (
	MethodGetAvailableBooks = "getAvailableBooks"
	MethodAddBook           = "addBook"
	MethodBorrowBook        = "borrowBook"
	MethodReturnBook        = "returnBook"
)

// LibraryABI 合约接口描述
const LibraryABI = `[
  {
    "inputs": [],
    "name": "getAvailableBooks",
    "outputs": [
      {
        "components": [
          {"internalType": "uint256", "name": "id", "type": "uint256"},
          {"internalType": "string", "name": "name", "type": "string"},
          {"internalType": "string", "name": "author", "type": "string"}
        ],
        "internalType": "struct Library.Book[]",
        "name": "",
        "type": "tuple[]"
      }
    ],
    "stateMutability": "view",
    "type": "function"
  },
  {
    "inputs": [
      {"internalType": "string", "name": "_name", "type": "string"},
      {"internalType": "string", "name": "_author", "type": "string"},
      {"internalType": "uint256", "name": "_copies", "type": "uint256"}
    ],
    "name": "addBook",
    "outputs": [],
    "stateMutability": "nonpayable",
    "type": "function"
  },
  {
    "inputs": [{"internalType": "uint256", "name": "_bookId", "type": "uint256"}],
    "name": "borrowBook",
    "outputs": [],
    "stateMutability": "nonpayable",
    "type": "function"
  },
  {
    "inputs": [{"internalType": "uint256", "name": "_bookId", "type": "uint256"}],
    "name": "returnBook",
    "outputs": [],
    "stateMutability": "nonpayable",
    "type": "function"
  }
]`

var (
	libraryAddress = common.HexToAddress(LibraryAddress)
	parsedABI      abi.ABI
)

func init() {
	var err error
	parsedABI, err = abi.JSON(strings.NewReader(LibraryABI))
	if err != nil {
		panic("invalid library abi: " + err.Error())
	}
}

// ParsedABI 返回解析后的合约 ABI
func ParsedABI() abi.ABI {
	return parsedABI
}

// Address 返回合约地址
func Address() common.Address {
	return libraryAddress
}
