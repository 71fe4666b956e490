// Command sdex-indexer drains Horizon offers into postgres and clickhouse
package main

func main() { Execute() }
