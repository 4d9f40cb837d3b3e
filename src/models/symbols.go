package models

type StockSymbol string

type OptionSymbol string
