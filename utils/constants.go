package utils

// MaxColors is the total palette size; progression can never unlock past it.
const MaxColors = 8

// ColorNames maps a color index to its display name, in unlock order.
var ColorNames = [MaxColors]string{
	"Red",
	"Blue",
	"Green",
	"Yellow",
	"Purple",
	"Orange",
	"Cyan",
	"Magenta",
}

// ColorValues maps a color index to its RGB value for display clients.
var ColorValues = [MaxColors][3]int{
	{230, 57, 70},
	{69, 123, 157},
	{82, 183, 136},
	{255, 202, 58},
	{155, 93, 229},
	{244, 140, 6},
	{72, 202, 228},
	{199, 125, 255},
}
