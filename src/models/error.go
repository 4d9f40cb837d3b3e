package models

import "fmt"

var InvalidInputErr = fmt.Errorf("raw input is nil or empty")
var InsufficientDataErr = fmt.Errorf("not enough price history")
var InvalidAccountValueErr = fmt.Errorf("account value must be greater than zero")
