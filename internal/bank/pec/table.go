package pec

import "github.com/yourorg/bank-gateway/internal/gateway/codes"

// statusTable is the documented Parsian response-code vocabulary. The code
// value drives state transitions; this text is for diagnostics and the
// record's status text only.
var statusTable = codes.New(map[string]string{
	"-1552": "Payment Request Is Not Eligible To Reversal",
	"-1551": "Payment Request Is Already Reversed",
	"-1550": "Payment Request Status Is Not Reversible",
	"-1549": "Max Allowed Time To Reversal Has Exceeded",
	"-1548": "Bill Payment Request Service Failed",
	"-1540": "Invalid Confirm Request Service",
	"-1536": "Topup Charge Service Topup Charge Request Failed",
	"-1533": "Payment Is Already Confirmed",
	"-1532": "Merchant Has Confirmed Payment Request",
	"-1531": "Cannot Confirm NonSuccessful Payment",
	"-1530": "Merchant Confirm Payment Request Access Violated",
	"-1528": "Confirm Payment Request Info Not Found",
	"-1527": "Call Sale Payment Request Service Failed",
	"-1507": "Reversal Completed",
	"-1505": "Payment Confirm Requested",
	"-138":  "Canceled By User",
	"-132":  "Invalid Minimum Payment Amount",
	"-131":  "Invalid Token",
	"-130":  "Token Is Expired",
	"-128":  "Invalid Ip Address Format",
	"-127":  "Invalid Merchant Ip",
	"-126":  "Invalid Merchant Pin",
	"-121":  "Invalid String Is Numeric",
	"-120":  "Invalid Length",
	"-119":  "Invalid Organization Id",
	"-118":  "Value Is Not Numeric",
	"-117":  "Length Is Less Of Minimum",
	"-116":  "Length Is More Of Maximum",
	"-115":  "Invalid Pay Id",
	"-114":  "Invalid Bill Id",
	"-113":  "Value Is Null",
	"-112":  "Order Id Duplicated",
	"-111":  "Invalid Merchant Max Trans Amount",
	"-108":  "Reverse Is Not Enabled",
	"-107":  "Advice Is Not Enabled",
	"-106":  "Charge Is Not Enabled",
	"-105":  "Topup Is Not Enabled",
	"-104":  "Bill Is Not Enabled",
	"-103":  "Sale Is Not Enabled",
	"-102":  "Reverse Successful",
	"-101":  "Merchant Authentication Failed",
	"-100":  "Merchant Is Not Active",
	"-1":    "Server Error",
	"0":     "Successful",
	"1":     "Refer To Card Issuer Decline",
	"2":     "Refer To Card Issuer Special Conditions",
	"3":     "Invalid Merchant",
	"5":     "Do Not Honour",
	"6":     "Error",
	"8":     "Honour With Identification",
	"9":     "Request In Progress",
	"10":    "Approved For Partial Amount",
	"12":    "Invalid Transaction",
	"13":    "Invalid Amount",
	"14":    "Invalid Card Number",
	"15":    "No Such Issuer",
	"17":    "Customer Cancellation",
	"20":    "Invalid Response",
	"21":    "No Action Taken",
	"22":    "Suspected Malfunction",
	"30":    "Format Error",
	"31":    "Bank Not Supported By Switch",
	"32":    "Completed Partially",
	"33":    "Expired Card Pick Up",
	"38":    "Allowable PIN Tries Exceeded Pick Up",
	"39":    "No Credit Account",
	"40":    "Requested Function is not Supported",
	"41":    "Lost Card",
	"43":    "Stolen Card",
	"45":    "Bill Can not Be Payed",
	"51":    "No Sufficient Funds",
	"54":    "Expired Account",
	"55":    "Incorrect PIN",
	"56":    "No Card Record",
	"57":    "Transaction Not Permitted To CardHolder",
	"58":    "Transaction Not Permitted To Terminal",
	"59":    "Suspected Fraud-Decline",
	"61":    "Exceeds Withdrawal Amount Limit",
	"62":    "Restricted Card-Decline",
	"63":    "Security Violation",
	"65":    "Exceeds Withdrawal Frequency Limit",
	"68":    "Response Received Too Late",
	"69":    "Allowable Number Of PIN Tries Exceeded",
	"75":    "PIN Reties Exceeds-Slm",
	"78":    "Deactivated Card-Slm",
	"79":    "Invalid Amount-Slm",
	"80":    "Transaction Denied-Slm",
	"81":    "Cancelled Card-Slm",
	"83":    "Host Refuse-Slm",
	"84":    "Issuer Down-Slm",
	"91":    "Issuer Or Switch Is Inoperative",
	"92":    "Financial Inst Or Intermediate Net Facility Not Found for Routing",
	"93":    "Transaction Cannot Be Completed",
})

// StatusTable exposes the table for exhaustive translation tests.
func StatusTable() codes.Table {
	return statusTable
}
