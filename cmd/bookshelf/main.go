// bookshelf 图书合约命令行客户端
package main

func main() {
	Execute()
}
