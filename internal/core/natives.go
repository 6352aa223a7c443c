package core

import (
	"github.com/jcorbin/gobitvm/internal/fault"
)

// Native is an entry of the native function table compiled code calls
// through. Arguments and the result are 32-bit slot values, in the fixed
// order the code generator emits them; Void natives return Null.
type Native struct {
	Name  string
	Arity int
	Fn    func(rt *Runtime, args []Word) Word
}

// Natives is the native function table. Compiled code refers to entries by
// index, so entries may only ever be appended.
var Natives = []Native{
	// variables
	{"bitvm::ldloc", 1, func(rt *Runtime, a []Word) Word { return rt.LoadCell(a[0]) }},
	{"bitvm::ldlocRef", 1, func(rt *Runtime, a []Word) Word { return rt.LoadCellRef(a[0]) }},
	{"bitvm::stloc", 2, func(rt *Runtime, a []Word) Word { rt.StoreCell(a[0], a[1]); return Null }},
	{"bitvm::stlocRef", 2, func(rt *Runtime, a []Word) Word { rt.StoreCellRef(a[0], a[1]); return Null }},
	{"bitvm::mkloc", 0, func(rt *Runtime, a []Word) Word { return rt.NewCell() }},
	{"bitvm::mklocRef", 0, func(rt *Runtime, a []Word) Word { return rt.NewRefCell() }},
	{"bitvm::ldglb", 1, func(rt *Runtime, a []Word) Word { return rt.LoadGlobal(a[0].Int()) }},
	{"bitvm::ldglbRef", 1, func(rt *Runtime, a []Word) Word { return rt.LoadGlobalRef(a[0].Int()) }},
	{"bitvm::stglb", 2, func(rt *Runtime, a []Word) Word { rt.StoreGlobal(a[0], a[1].Int()); return Null }},
	{"bitvm::stglbRef", 2, func(rt *Runtime, a []Word) Word { rt.StoreGlobalRef(a[0], a[1].Int()); return Null }},

	// records
	{"bitvm::ldfld", 2, func(rt *Runtime, a []Word) Word { return rt.LoadField(a[0], a[1].Int()) }},
	{"bitvm::ldfldRef", 2, func(rt *Runtime, a []Word) Word { return rt.LoadFieldRef(a[0], a[1].Int()) }},
	{"bitvm::stfld", 3, func(rt *Runtime, a []Word) Word { rt.StoreField(a[0], a[1].Int(), a[2]); return Null }},
	{"bitvm::stfldRef", 3, func(rt *Runtime, a []Word) Word { rt.StoreFieldRef(a[0], a[1].Int(), a[2]); return Null }},
	{"record::mk", 2, func(rt *Runtime, a []Word) Word { return rt.NewRecord(a[0].Int(), a[1].Int()) }},

	// objects
	{"bitvm::incr", 1, func(rt *Runtime, a []Word) Word { return rt.Retain(a[0]) }},
	{"bitvm::decr", 1, func(rt *Runtime, a []Word) Word { rt.Release(a[0]); return Null }},
	{"bitvm::is_invalid", 1, func(rt *Runtime, a []Word) Word { return FromBool(IsNull(a[0])) }},
	{"bitvm::const3", 0, func(rt *Runtime, a []Word) Word { return 3 }},
	{"bitvm::stringData", 1, func(rt *Runtime, a []Word) Word { return rt.TextLiteral(uint32(a[0])) }},

	// actions
	{"bitvm::stclo", 3, func(rt *Runtime, a []Word) Word { return rt.StoreClosure(a[0], a[1].Int(), a[2]) }},
	{"action::mk", 3, func(rt *Runtime, a []Word) Word { return rt.NewAction(a[0].Int(), a[1].Int(), uint32(a[2])) }},
	{"action::run", 1, func(rt *Runtime, a []Word) Word { rt.RunAction(a[0]); return Null }},

	// collections
	{"collection::mk", 1, func(rt *Runtime, a []Word) Word { return rt.NewCollection(CollectionFlags(a[0])) }},
	{"collection::count", 1, func(rt *Runtime, a []Word) Word { return FromInt(rt.Count(a[0])) }},
	{"collection::add", 2, func(rt *Runtime, a []Word) Word { rt.Add(a[0], a[1]); return Null }},
	{"collection::at", 2, func(rt *Runtime, a []Word) Word { return rt.At(a[0], a[1].Int()) }},
	{"collection::remove_at", 2, func(rt *Runtime, a []Word) Word { rt.RemoveAt(a[0], a[1].Int()); return Null }},
	{"collection::set_at", 3, func(rt *Runtime, a []Word) Word { rt.SetAt(a[0], a[1].Int(), a[2]); return Null }},
	{"collection::index_of", 3, func(rt *Runtime, a []Word) Word { return FromInt(rt.IndexOf(a[0], a[1], a[2].Int())) }},
	{"collection::remove", 2, func(rt *Runtime, a []Word) Word { return FromBool(rt.Remove(a[0], a[1])) }},

	// strings
	{"string::mkEmpty", 0, func(rt *Runtime, a []Word) Word { return rt.EmptyText() }},
	{"string::concat", 2, func(rt *Runtime, a []Word) Word { return rt.Concat(a[0], a[1]) }},
	{"string::concat_op", 2, func(rt *Runtime, a []Word) Word { return rt.Concat(a[0], a[1]) }},
	{"string::substring", 3, func(rt *Runtime, a []Word) Word { return rt.Substring(a[0], a[1].Int(), a[2].Int()) }},
	{"string::equals", 2, func(rt *Runtime, a []Word) Word { return FromBool(rt.TextEquals(a[0], a[1])) }},
	{"string::count", 1, func(rt *Runtime, a []Word) Word { return FromInt(rt.TextCount(a[0])) }},
	{"string::at", 2, func(rt *Runtime, a []Word) Word { return rt.TextAt(a[0], a[1].Int()) }},
	{"string::to_character_code", 1, func(rt *Runtime, a []Word) Word { return FromInt(rt.CodeAt(a[0], 0)) }},
	{"string::code_at", 2, func(rt *Runtime, a []Word) Word { return FromInt(rt.CodeAt(a[0], a[1].Int())) }},
	{"string::to_number", 1, func(rt *Runtime, a []Word) Word { return FromInt(rt.TextToNumber(a[0])) }},
	{"string::post_to_wall", 1, func(rt *Runtime, a []Word) Word { rt.PostToWall(rt.TextBytes(a[0])); return Null }},

	// numbers and booleans
	{"number::to_string", 1, func(rt *Runtime, a []Word) Word { return rt.NumberToText(a[0].Int()) }},
	{"number::to_character", 1, func(rt *Runtime, a []Word) Word { return rt.CharToText(a[0].Int()) }},
	{"number::post_to_wall", 1, func(rt *Runtime, a []Word) Word {
		s := rt.NumberToText(a[0].Int())
		rt.PostToWall(rt.TextBytes(s))
		rt.Release(s)
		return Null
	}},
	{"boolean::to_string", 1, func(rt *Runtime, a []Word) Word { return rt.BoolToText(a[0] != 0) }},
	{"contract::assert", 2, func(rt *Runtime, a []Word) Word { rt.Assert(a[0] != 0, uint32(a[1])); return Null }},

	// device
	{"micro_bit::onButtonPressed", 2, func(rt *Runtime, a []Word) Word { rt.OnButtonPressed(a[0].Int(), a[1]); return Null }},
	{"micro_bit::onButtonPressedExt", 3, func(rt *Runtime, a []Word) Word {
		rt.OnButtonPressedExt(a[0].Int(), a[1].Int(), a[2])
		return Null
	}},
	{"micro_bit::onPinPressed", 2, func(rt *Runtime, a []Word) Word { rt.OnPinPressed(a[0].Int(), a[1]); return Null }},
	{"micro_bit::runInBackground", 1, func(rt *Runtime, a []Word) Word { rt.InBackground(a[0]); return Null }},
	{"micro_bit::forever", 1, func(rt *Runtime, a []Word) Word { rt.Forever(a[0]); return Null }},
	{"micro_bit::pause", 1, func(rt *Runtime, a []Word) Word { rt.Pause(a[0].Int()); return Null }},
	{"micro_bit::scrollString", 2, func(rt *Runtime, a []Word) Word { rt.ScrollText(a[0], a[1].Int()); return Null }},
	{"micro_bit::showLetter", 1, func(rt *Runtime, a []Word) Word { rt.ShowLetter(a[0]); return Null }},
	{"micro_bit::serialSendString", 1, func(rt *Runtime, a []Word) Word { rt.SerialSendText(a[0]); return Null }},
	{"micro_bit::serialReadString", 0, func(rt *Runtime, a []Word) Word { return rt.SerialReadText() }},
	{"micro_bit::panic", 1, func(rt *Runtime, a []Word) Word { rt.Panic(a[0].Int()); return Null }},
	{"micro_bit::reset", 0, func(rt *Runtime, a []Word) Word { rt.Reset(); return Null }},

	// images
	{"micro_bit::createImage", 1, func(rt *Runtime, a []Word) Word { return rt.NewImage(uint32(a[0])) }},
	{"micro_bit::createReadOnlyImage", 1, func(rt *Runtime, a []Word) Word { return rt.ReadOnlyImage(uint32(a[0])) }},
	{"micro_bit::imageClone", 1, func(rt *Runtime, a []Word) Word { return rt.CloneImage(a[0]) }},
	{"micro_bit::clearImage", 1, func(rt *Runtime, a []Word) Word { rt.ClearImage(a[0]); return Null }},
	{"micro_bit::getImagePixel", 3, func(rt *Runtime, a []Word) Word {
		return FromInt(rt.ImagePixel(a[0], a[1].Int(), a[2].Int()))
	}},
	{"micro_bit::setImagePixel", 4, func(rt *Runtime, a []Word) Word {
		rt.SetImagePixel(a[0], a[1].Int(), a[2].Int(), a[3].Int())
		return Null
	}},
	{"micro_bit::getImageWidth", 1, func(rt *Runtime, a []Word) Word { return FromInt(rt.ImageWidth(a[0])) }},
	{"micro_bit::getImageHeight", 1, func(rt *Runtime, a []Word) Word { return FromInt(rt.ImageHeight(a[0])) }},
	{"micro_bit::isImageReadOnly", 1, func(rt *Runtime, a []Word) Word { return FromBool(rt.IsImageReadOnly(a[0])) }},
	{"micro_bit::showImage", 2, func(rt *Runtime, a []Word) Word { rt.ShowImage(a[0], a[1].Int()); return Null }},
	{"micro_bit::plotImage", 2, func(rt *Runtime, a []Word) Word { rt.PlotImage(a[0], a[1].Int()); return Null }},
	{"micro_bit::scrollImage", 3, func(rt *Runtime, a []Word) Word { rt.ScrollImage(a[0], a[1].Int(), a[2].Int()); return Null }},
	{"micro_bit::showLeds", 2, func(rt *Runtime, a []Word) Word { rt.ShowLeds(uint32(a[0]), a[1].Int()); return Null }},
	{"micro_bit::plotLeds", 1, func(rt *Runtime, a []Word) Word { rt.PlotLeds(uint32(a[0])); return Null }},
	{"micro_bit::showAnimation", 2, func(rt *Runtime, a []Word) Word { rt.ShowAnimation(uint32(a[0]), a[1].Int()); return Null }},
	{"micro_bit::displayScreenShot", 0, func(rt *Runtime, a []Word) Word { return rt.ScreenShot() }},
	{"micro_bit::serialSendImage", 1, func(rt *Runtime, a []Word) Word { rt.SerialSendImage(a[0]); return Null }},
	{"micro_bit::serialReadImage", 2, func(rt *Runtime, a []Word) Word { return rt.SerialReadImage(a[0].Int(), a[1].Int()) }},
}

var nativeNames symbols

func init() {
	for _, n := range Natives {
		nativeNames.define(n.Name)
	}
}

// NativeIndex returns the table index of a named native.
func NativeIndex(name string) (int, bool) {
	id := nativeNames.symbol(name)
	return int(id) - 1, id != 0
}

// NativeName returns the name of the native at index i, or "".
func NativeName(i int) string {
	return nativeNames.string(uint(i + 1))
}

// CallNative calls the native at index i.
func (rt *Runtime) CallNative(i int, args ...Word) Word {
	if i < 0 || i >= len(Natives) {
		fault.Haltf(fault.ErrInvalidBinaryHeader, 8, "no native #%v", i)
	}
	n := Natives[i]
	if len(args) != n.Arity {
		fault.Haltf(fault.ErrInvalidBinaryHeader, 9, "%v takes %v arguments, given %v", n.Name, n.Arity, len(args))
	}
	return n.Fn(rt, args)
}

// Call calls a native by name.
func (rt *Runtime) Call(name string, args ...Word) Word {
	i, ok := NativeIndex(name)
	if !ok {
		fault.Haltf(fault.ErrInvalidBinaryHeader, 8, "no native %q", name)
	}
	return rt.CallNative(i, args...)
}
